package usecase

import (
	"context"
	"fmt"
	"strings"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"
	"radio-cms/pkg/utils"
)

const auditEntityContact = "contact"

type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	FindByID(ctx context.Context, id string) (*domain.Contact, error)
	FindPage(ctx context.Context, filter *domain.ContactFilter, option *domain.FindPageOption) ([]*domain.Contact, *domain.Pagination, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type contactUsecase struct {
	repo     ContactRepository
	notifier *common.Notifier
	logger   log.Logger
}

func NewContactUsecase(repo ContactRepository, notifier *common.Notifier, logger log.Logger) domain.ContactUsecase {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &contactUsecase{repo: repo, notifier: notifier, logger: logger}
}

// Submit stores a message from the public form. Phone numbers are stored in
// E.164 form.
func (u *contactUsecase) Submit(ctx context.Context, req *domain.SubmitContactRequest) (*domain.Contact, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone != "" {
		e164, err := utils.FormatE164(phone, utils.DefaultPhoneRegion)
		if err != nil {
			return nil, domain.ErrBadRequest.WithReasonf("invalid phone number: %v", err)
		}
		phone = e164
	}

	contact := &domain.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  domain.ContactSTTNew,
	}
	if err := u.repo.Create(ctx, contact); err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "contact message received",
		log.String("contact_id", contact.ID),
		log.String("email", utils.MaskEmail(contact.Email)),
	)
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     domain.EventContactReceived,
		Title:    "New contact message",
		Message:  fmt.Sprintf("%s sent a message", contact.Name),
		Data:     contact,
		Priority: domain.PriorityHigh,
	}, domain.RoomAdmin)
	return contact, nil
}

func (u *contactUsecase) MarkRead(ctx context.Context, actor *domain.Principal, id string) (*domain.Contact, error) {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return nil, err
	}
	contact, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, common.NotFoundOr(err, domain.ErrContactNotFound)
	}
	if contact.Status == domain.ContactSTTRead {
		return contact, nil
	}
	if err := u.repo.UpdateFields(ctx, id, map[string]any{"status": domain.ContactSTTRead}); err != nil {
		return nil, common.NotFoundOr(err, domain.ErrContactNotFound)
	}
	contact.Status = domain.ContactSTTRead

	u.notifier.Audit(ctx, actor, "mark_read", auditEntityContact, id)
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     domain.EventContactStatusChanged,
		Title:    "Contact message read",
		Message:  fmt.Sprintf("Message from %s was marked as read", contact.Name),
		Data:     contact,
		Priority: domain.PriorityLow,
	}, domain.RoomAdmin)
	return contact, nil
}

func (u *contactUsecase) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return common.NotFoundOr(err, domain.ErrContactNotFound)
	}

	u.notifier.Audit(ctx, actor, "delete", auditEntityContact, id)
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     domain.EventContactDeleted,
		Title:    "Contact message deleted",
		Message:  "A contact message was deleted",
		Data:     map[string]string{"id": id},
		Priority: domain.PriorityLow,
	}, domain.RoomAdmin)
	return nil
}

func (u *contactUsecase) FindPage(ctx context.Context, filter *domain.ContactFilter, option *domain.FindPageOption) ([]*domain.Contact, *domain.Pagination, error) {
	return u.repo.FindPage(ctx, filter, option)
}

package domain

type SQLModel struct {
	ID        string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt int64  `json:"created_at" gorm:"autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"autoUpdateTime:milli"`
	DeletedAt int64  `json:"-" gorm:"index;default:0"`
}

type FindOneOption struct {
	Preloads []string `json:"preloads" form:"preloads"`
	Sort     []string `json:"sort" form:"sort"`
}

type FindManyOption struct {
	Preloads []string `json:"preloads" form:"preloads"`
	Sort     []string `json:"sort" form:"sort"`
	Limit    *int     `json:"limit" form:"limit"`
	Offset   *int     `json:"offset" form:"offset"`
}

type FindPageOption struct {
	Preloads []string `json:"preloads" form:"preloads"`
	Sort     []string `json:"sort" form:"sort"`
	Page     int      `json:"page" form:"page" binding:"omitempty,min=1"`
	PerPage  int      `json:"per_page" form:"per_page" binding:"omitempty,min=1,max=100"`
}

// Normalize fills paging defaults in place and returns the option for chaining.
func (o *FindPageOption) Normalize() *FindPageOption {
	if o == nil {
		o = &FindPageOption{}
	}
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.PerPage <= 0 {
		o.PerPage = 10
	}
	return o
}

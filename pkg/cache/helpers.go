package cache

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func LockKey(resource string) string {
	return fmt.Sprintf("lock:%s", resource)
}

func encodeJSON(key string, value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, &Error{Operation: "serialize", Key: key, Err: fmt.Errorf("%w: %v", ErrSerialization, err)}
	}
	return data, nil
}

func decodeJSON(key string, data []byte, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return &Error{Operation: "deserialize", Key: key, Err: fmt.Errorf("%w: %v", ErrSerialization, err)}
	}
	return nil
}

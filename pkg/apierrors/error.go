package apierrors

import (
	"fmt"

	"taskbot/pkg/translator"
)

// JsonErr is the body of every non-2xx API response.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err carries the HTTP status, the stable message key clients can switch on,
// and the message rendered in the request language.
type Err struct {
	Code    int    `json:"code"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (e JsonErr) Error() string {
	return fmt.Sprintf("%d %s: %s", e.ErrDetails.Code, e.ErrDetails.Key, e.ErrDetails.Message)
}

// CreateError builds a JsonErr for msgKey localized into lang.
func CreateError(code int, msgKey string, lang string) JsonErr {
	return JsonErr{ErrDetails: Err{
		Code:    code,
		Key:     msgKey,
		Message: GetTransErrorMsg(msgKey, lang),
	}}
}

// GetTransErrorMsg falls back to the default language, then to msgKey
// itself when no catalog has the message.
func GetTransErrorMsg(msgKey string, lang string) string {
	return translator.Localize(lang, msgKey, nil)
}

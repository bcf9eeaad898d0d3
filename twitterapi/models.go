package twitterapi

type User struct {
	ID         int64  `json:"id"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
	Protected  bool   `json:"protected"`
}

// UserContainer is one page of the friends/list endpoint.
type UserContainer struct {
	Users      []*User `json:"users"`
	NextCursor int64   `json:"next_cursor"`
}

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Errors []APIError `json:"errors"`
}

// Error codes reported by the API next to the HTTP status.
const (
	codeUserNotFound  = 50
	codeUserSuspended = 63
)

func (r *ErrorResponse) hasCode(code int) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

func (r *ErrorResponse) message() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

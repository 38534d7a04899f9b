package error

import "net/http"

// ConfigError is raised when the service is missing credentials it needs
// to handle the request at all.
type ConfigError string

func (err ConfigError) Error() string {
	return string(err)
}

func (err ConfigError) ErrCode() string {
	return "CONFIG_ERROR"
}

func (err ConfigError) StatusCode() int {
	return http.StatusInternalServerError
}

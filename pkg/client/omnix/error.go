package omnix

import "fmt"

func (e *APIError) Error() string {
	return fmt.Sprintf("omnix api error status: %d, code: %s, description: %s", e.StatusCode, e.Code, e.Message)
}

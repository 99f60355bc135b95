// Package response — конверт ответов API. Форма совместима с клиентом:
// {"success": true, "data": ...} либо {"success": false, "error": "..."}.
package response

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ImportResponse дополняет конверт числом принятых записей.
type ImportResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// VerifyKeyResponse: невалидный ключ — это success=true, valid=false.
type VerifyKeyResponse struct {
	Success bool   `json:"success"`
	Valid   bool   `json:"valid"`
	Warning string `json:"warning,omitempty"`
	Token   string `json:"token,omitempty"`
}

type FriendItemResponse struct {
	Success bool        `json:"success"`
	Item    interface{} `json:"item"`
}

type FriendDeleteResponse struct {
	Success bool    `json:"success"`
	ID      float64 `json:"id"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

func Error(message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   message,
	}
}

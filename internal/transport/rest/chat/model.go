package chatcntrl

type chatRequest struct {
	Message string `json:"message" validate:"required,max=8000"`
}

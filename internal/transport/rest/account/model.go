package accountcntrl

type locationRequest struct {
	Location  string  `json:"location" validate:"required,max=200"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type carRequestRequest struct {
	Brand    string  `json:"brand" validate:"required"`
	Model    string  `json:"model" validate:"required"`
	MaxPrice float64 `json:"max_price" validate:"gte=0"`
	Notes    string  `json:"notes" validate:"max=2000"`
}

type feedbackRequest struct {
	Rating  int    `json:"rating" validate:"gte=0,lte=5"`
	Message string `json:"message" validate:"required,max=4000"`
}

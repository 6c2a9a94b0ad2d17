package marketcntrl

type listingsFeedRequest struct {
	Page     int    `query:"page" validate:"gte=0"`
	PageSize int    `query:"page_size" validate:"gte=0,lte=100"`
	Category string `query:"category"`
}

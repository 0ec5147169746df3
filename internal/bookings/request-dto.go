package bookings

// CreateBookingRequest binds from a form post or a JSON body
type CreateBookingRequest struct {
	BookingDate string `form:"booking_date" json:"booking_date"`
	StartTime   string `form:"start_time" json:"start_time"`
	EndTime     string `form:"end_time" json:"end_time"`
	PromoCode   string `form:"promo_code" json:"promo_code"`
}

type EditBookingRequest struct {
	BookingDate string `form:"booking_date" json:"booking_date"`
	StartTime   string `form:"start_time" json:"start_time"`
	EndTime     string `form:"end_time" json:"end_time"`
}

type BookingListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

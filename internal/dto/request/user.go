package request

type UpdateProfileRequest struct {
	Phone      string `json:"phone" validate:"max=20"`
	Country    string `json:"country" validate:"max=80"`
	PostalCode string `json:"postal_code" validate:"max=20"`
}

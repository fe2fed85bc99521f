package domain

type User struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsPartner bool   `json:"is_partner"`
}

package kartoteka

import "github.com/google/uuid"

// ProfileView is the outward, read-only projection of Profile.
type ProfileView struct {
	Id         uuid.UUID `json:"id"`
	UserId     uuid.UUID `json:"userId"`
	FirstName  string    `json:"firstName,omitempty"`
	LastName   string    `json:"lastName,omitempty"`
	MiddleName string    `json:"middleName,omitempty"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	BirthDate  Date      `json:"birthDate"`
	CreatedAt  DateTime  `json:"createdAt"`
	UpdatedAt  DateTime  `json:"updatedAt"`
}

func NewProfileView(p Profile) ProfileView {
	return ProfileView{
		Id:         p.Id,
		UserId:     p.UserId,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		MiddleName: p.MiddleName,
		Email:      p.Email,
		Phone:      p.Phone,
		BirthDate:  Date{p.BirthDate},
		CreatedAt:  DateTime{p.CreatedAt},
		UpdatedAt:  DateTime{p.UpdatedAt},
	}
}

package model

// Teacher leads sessions. Sessions reference teachers but never own them.
type Teacher struct {
	Base
	LastName  string
	FirstName string
}

// TeacherDTO is the transport representation of a teacher.
type TeacherDTO struct {
	Base
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
}

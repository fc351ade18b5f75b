package recognition

// User is a registered subject as reported by the Recognition API.
type User struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	HasFaceRegistered bool   `json:"hasFaceRegistered"`
	CreatedAt         string `json:"createdAt,omitempty"`
}

// RegisterResponse is the result of a face registration.
type RegisterResponse struct {
	Message string `json:"message"`
}

// AttendResponse is the result of an attendance submission. Name is
// "Unknown" when no registered face matched.
type AttendResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// AttendanceKind distinguishes check-in from check-out submissions.
type AttendanceKind string

const (
	CheckIn  AttendanceKind = "check_in"
	CheckOut AttendanceKind = "check_out"
)

// Record is a single attendance entry.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status,omitempty"`
}

type createUserResponse struct {
	User User `json:"user"`
}

package domain

// Record mirrors the chaincode's medical-record state. Records are anchored
// to the ledger and reached through the fabric proxy; this service never
// stores them locally.
type Record struct {
	ID            string              `json:"id"`
	Owner         string              `json:"owner"`
	PatientName   string              `json:"patientName"`
	Age           int                 `json:"age"`
	DateOfBirth   string              `json:"dateOfBirth"`
	Gender        string              `json:"gender"`
	Address       string              `json:"address"`
	PhoneNumber   string              `json:"phoneNumber"`
	Data          []RecordEntry       `json:"data"`
	AccessList    []string            `json:"accessList"`
	AccessHistory []string            `json:"accessHistory"`
	Collabs       []CollaborationCase `json:"collabs"`
	Status        string              `json:"status"`
}

// RecordEntry is one clinical item attached to a record: a note, a
// prescription or an uploaded document. Type discriminates the payload.
type RecordEntry struct {
	Type       string   `json:"type"`
	Speciality string   `json:"speciality"`
	DoctorID   string   `json:"doctorID"`
	Title      string   `json:"title,omitempty"`
	Content    string   `json:"content,omitempty"`
	URLs       []string `json:"documentUrls,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func (r *Record) HasAccess(doctorID string) bool {
	for _, id := range r.AccessList {
		if id == doctorID {
			return true
		}
	}
	return false
}

type GrantAccessInput struct {
	RecordID string `json:"record_id" validate:"required"`
	DoctorID string `json:"doctor_id" validate:"required"`
}

type RequestAccessInput struct {
	RecordID  string `json:"record_id" validate:"required"`
	PatientID string `json:"patient_id" validate:"required"`
}

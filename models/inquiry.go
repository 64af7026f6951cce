package models

import "time"

const (
	InquiryStatusNew        = "new"
	InquiryStatusInProgress = "in-progress"
	InquiryStatusResolved   = "resolved"
)

type Inquiry struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Company   string    `json:"company,omitempty" bson:"company,omitempty"`
	Subject   string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Message   string    `json:"message" bson:"message"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

func IsValidInquiryStatus(status string) bool {
	switch status {
	case InquiryStatusNew, InquiryStatusInProgress, InquiryStatusResolved:
		return true
	}
	return false
}

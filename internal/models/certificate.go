package models

import "time"

// Certificate represents an issued course-completion certificate
type Certificate struct {
	ID       int       `json:"id"`
	UserID   int       `json:"userId"`
	CourseID int       `json:"courseId"`
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issuedAt"`
}

// CertificateWithCourse represents a certificate joined with its course summary
type CertificateWithCourse struct {
	Certificate
	Course CourseSummary `json:"course"`
}

// IssueCertificateRequest represents an instructor/admin issuance request
type IssueCertificateRequest struct {
	UserID   int `json:"userId"`
	CourseID int `json:"courseId"`
}

// ClaimCertificateRequest represents a student self-claim request
type ClaimCertificateRequest struct {
	CourseID int `json:"courseId"`
}

// CertificateVerification is the public verification result. Verification
// never errors to the caller; unknown or malformed codes yield Valid=false.
type CertificateVerification struct {
	Valid       bool         `json:"valid"`
	Certificate *Certificate `json:"certificate,omitempty"`
}

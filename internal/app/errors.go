package app

import (
	"fmt"
	"net/http"
)

// DomainError is an error the HTTP layer reports as-is: Status and Code go
// on the wire, Details carries the ids the caller sent.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func documentDetails(documentID string) map[string]any {
	return map[string]any{"documentId": documentID}
}

func errInvalidDocument(documentID, reason string) error {
	return domainError(http.StatusBadRequest, "INVALID_DOCUMENT", reason, documentDetails(documentID))
}

func errDocumentNotOpen(documentID string) error {
	return domainError(http.StatusNotFound, "DOCUMENT_NOT_OPEN", "Document is not open", documentDetails(documentID))
}

func errDocumentNotFound(documentID string) error {
	return domainError(http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not found", documentDetails(documentID))
}

func errPresenceUnavailable() error {
	return domainError(http.StatusServiceUnavailable, "PRESENCE_UNAVAILABLE", "Presence roster not configured", nil)
}

func errGitUnavailable() error {
	return domainError(http.StatusServiceUnavailable, "GIT_UNAVAILABLE", "Document repository not configured", nil)
}

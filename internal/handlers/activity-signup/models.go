// internal/handlers/activity-signup/models.go
package activitysignup

// Request is the parsed signup input: the percent-decoded activity name
// from the path and the participant identifier from the query string.
type Request struct {
	Activity string
	Email    string
}

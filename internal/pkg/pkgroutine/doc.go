// Package pkgroutine runs background work in supervised goroutines.
//
// The import workflow itself is strictly sequential, but it runs under a
// manager so cancellation, panic recovery, and error collection behave the
// same for every background task the application starts.
package pkgroutine

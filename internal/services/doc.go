// Package services defines the shared error taxonomy for photodup
// components, letting callers classify failures with errors.Is without
// depending on the component that produced them.
package services

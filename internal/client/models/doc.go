// Package models defines the wire DTOs of the Connectin REST API and the
// value types the client engines hand to the view layer.
package models

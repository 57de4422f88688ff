// Package models defines the wire types exchanged with the movie catalog service.
//
// The package contains two categories of types:
//
// 1. Response DTOs: decoded from service responses
//   - [MovieSummary] : one row of a movie list, immutable once decoded
//   - [AuthResponse] : register/login outcome, a redirect target or an error
//   - [MessageResponse] : add-movie outcome, a message or an error
//
// 2. Request DTOs: built client-side and discarded once the call resolves
//   - [Credentials] : register/login body
//   - [NewMovieDraft] : add-movie body, image bytes as a numeric JSON array ([ByteArray])
//   - [RatingSubmission] : rating value for a movie, validated to 1..5
//
// [Scope] selects which collection a list render fetches.
package models

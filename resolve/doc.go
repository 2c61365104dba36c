// Package resolve turns a search over past incidents into a resolution
// suggestion. It retrieves the most similar incidents, renders them into a
// prompt as JSON context and asks the generation model for a structured
// summary in a single call.
package resolve

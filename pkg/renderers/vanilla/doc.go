// Package vanilla renders the booking setup page as plain HTML with embedded
// pongo2 templates and an inline stylesheet. No JavaScript is required: the
// form posts back to the server and, while a submission is loading, the page
// refreshes itself until the outcome is available.
package vanilla

// Package model holds the persisted entities and their request/response
// shapes, one sub-package per resource.
package model

// Package lib holds supporting infrastructure that does not belong to a
// single layer, such as background job processing (Asynq).
package lib

package apiresource

import (
	"github.com/fulldump/box"
)

// Build mounts the generic document resources below parent.
func Build(parent *box.R) *box.R {

	resource := parent.Resource("/{database}/{collection}").
		WithActions(
			box.Get(read),
			box.Post(create),
			box.Patch(update),
			box.Delete(remove),
		)

	// Literal children go first so they win over {query}
	resource.Resource("/schema").
		WithActions(
			box.Get(readSchema),
		)

	resource.Resource("/openapi").
		WithActions(
			box.Get(readOpenapi),
		)

	resource.Resource("/{query}").
		WithActions(
			box.Get(read),
		)

	resource.Resource("/{query}/field/{fields}").
		WithActions(
			box.Get(read),
		)

	return resource
}

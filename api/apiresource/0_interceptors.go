package apiresource

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/docrest/collection"
	"github.com/fulldump/docrest/registry"
)

const ContextRegistryKey = "3c9f6a52-8d1e-11ef-b7a4-6f0d2c1e9a31"

func SetRegistry(ctx context.Context, r *registry.Registry) context.Context {
	return context.WithValue(ctx, ContextRegistryKey, r)
}

func GetRegistry(ctx context.Context) *registry.Registry {
	return ctx.Value(ContextRegistryKey).(*registry.Registry)
}

// InjectRegistry makes r available to every handler below the resource.
func InjectRegistry(r *registry.Registry) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(SetRegistry(ctx, r))
		}
	}
}

// resolve returns the collection addressed by the url.
func resolve(ctx context.Context) (*collection.Collection, error) {
	return GetRegistry(ctx).Resolve(
		box.GetUrlParameter(ctx, "database"),
		box.GetUrlParameter(ctx, "collection"),
	)
}

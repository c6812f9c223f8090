package application

import "github.com/google/wire"

// ProviderSet is the wire provider set for the content application layer
var ProviderSet = wire.NewSet(
	NewContentService,
)

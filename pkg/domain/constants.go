package domain

// Field constants shared by the binder, the resolver and the serializers.
const (
	// ChannelColor is the bindable paint field the engine rewrites.
	ChannelColor = "color"

	// AliasVariable is the alias type recorded on a bound paint channel.
	AliasVariable = "VARIABLE_ALIAS"

	// DefaultNodeLimit is the ceiling applied when no limit is configured.
	DefaultNodeLimit = 3000

	// DefaultProgressEvery is the progress notification cadence, in nodes.
	DefaultProgressEvery = 10
)

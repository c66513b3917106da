package types

type InputEventType string

const (
	InputEventManualBuy  InputEventType = "manual_buy"
	InputEventManualSell InputEventType = "manual_sell"
	InputEventQuit       InputEventType = "quit"
)

// InputEvent is a user action delivered to the engine between logic ticks.
// An empty Symbol targets every asset.
type InputEvent struct {
	Type   InputEventType
	Symbol string
}

package dto

// GateDecision is the tool gate's answer to "may this tool run". On an
// insufficient-balance denial RedirectTo points the page at the coin purchase
// surface.
//
// swagger:model
type GateDecision struct {
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty" example:"/purchase-coins"`
	Balance    int    `json:"balance"`
}

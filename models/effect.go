package models

type EffectKind string

const (
	EffectRoleGrant     EffectKind = "role_grant"
	EffectRoleRevoke    EffectKind = "role_revoke"
	EffectChannelPost   EffectKind = "channel_post"
	EffectDirectMessage EffectKind = "direct_message"
)

// Effect is a side effect the adapter is asked to attempt on the platform
// (role mutation, channel post). Effects are requested after the domain
// state change commits; the adapter may fail them without rolling anything
// back.
type Effect struct {
	Kind      EffectKind  `json:"kind"`
	UserID    string      `json:"user_id,omitempty"`
	RoleID    string      `json:"role_id,omitempty"`
	ChannelID string      `json:"channel_id,omitempty"`
	Event     string      `json:"event,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

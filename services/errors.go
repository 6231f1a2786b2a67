package services

import "errors"

// Errors shared across services and the HTTP error mapping.
var (
	// Generic
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Entity lookups
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrMembershipNotFound = errors.New("player is not on the team")
	ErrMatchNotFound      = errors.New("match not found")
	ErrOfferNotFound      = errors.New("contract offer not found or already resolved")
	ErrRefereeNotFound    = errors.New("user is not a referee")

	// Team and manager conflicts
	ErrTeamNameConflict   = errors.New("team name is already in use")
	ErrTeamRoleConflict   = errors.New("a team is already bound to this role")
	ErrTeamInUse          = errors.New("team is referenced by scheduled matches or pending offers")
	ErrTeamAlreadyManaged = errors.New("team already has a manager")
	ErrManagerElsewhere   = errors.New("user already manages another team")
	ErrTeamHasNoManager   = errors.New("team does not have a manager")

	// Affiliation resolution
	ErrNoTeamAffiliation    = errors.New("user is not associated with any team")
	ErrAmbiguousAffiliation = errors.New("user holds roles of more than one team")

	// Settings
	ErrManagerRoleNotConfigured = errors.New("manager role has not been configured")
	ErrRefereeRoleNotConfigured = errors.New("referee role has not been configured")
	ErrUnknownSettingKey        = errors.New("unknown setting key")
	ErrSettingNotConfigured     = errors.New("setting is not configured")

	// Contract offers
	ErrOfferToBot            = errors.New("cannot send a contract offer to a bot")
	ErrOfferToSelf           = errors.New("cannot send a contract offer to yourself")
	ErrOfferTargetMismatch   = errors.New("only the addressed player can respond to the offer")
	ErrOfferExpired          = errors.New("contract offer has expired")
	ErrOfferAlreadyFinalized = errors.New("offer delivery message is already registered")
	ErrAlreadyOnTeam         = errors.New("player already holds this membership")

	// Referees
	ErrRefereeExists = errors.New("user is already a referee")
	ErrBotUser       = errors.New("bots cannot hold league roles")

	// Matches
	ErrMatchSameTeams        = errors.New("home and away teams must be different")
	ErrMatchAlreadyCancelled = errors.New("match is already cancelled")
	ErrMatchCancelled        = errors.New("cannot modify a cancelled match")
	ErrInvalidDateFormat     = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTimeFormat     = errors.New("time must be in HH:MM format")
	ErrUnknownMatchField     = errors.New("unknown match field")

	// Fixtures
	ErrFixturesNotPosted = errors.New("no fixtures message has been posted")
)

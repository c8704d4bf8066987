// README: Common identifier type shared across modules.
package types

// ID identifies users, rides, and ride requests. The gateway issues them;
// this side only compares and forwards.
type ID string

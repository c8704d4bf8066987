// README: Viewer role classification and the mine/incoming partition.
package requests

import "ridepool/internal/types"

type Role string

const (
	RoleRequester Role = "requester"
	RoleOwner     Role = "owner"
	RoleNone      Role = "none"
)

// Classify determines the viewer's relationship to a request. A viewer
// matching both sides counts as requester, so a request lands in exactly
// one partition.
func Classify(viewer types.ID, req RideRequest, ride Ride) Role {
	if viewer == "" {
		return RoleNone
	}
	if req.RequesterID == viewer {
		return RoleRequester
	}
	if ride.OwnerID == viewer {
		return RoleOwner
	}
	return RoleNone
}

// Partition splits requests into "requests I made" and "requests against
// rides I own". Requests whose ride is unknown to the viewer can still be
// theirs as requester; they can never be incoming.
func Partition(viewer types.ID, reqs []RideRequest, rides map[types.ID]Ride) (mine, incoming []RideRequest) {
	for _, r := range reqs {
		switch Classify(viewer, r, rides[r.RideID]) {
		case RoleRequester:
			mine = append(mine, r)
		case RoleOwner:
			incoming = append(incoming, r)
		}
	}
	return mine, incoming
}

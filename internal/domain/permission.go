package domain

// Permission rules for competition records. All functions are pure; callers
// translate a false result into an authorization failure.

// CanModify reports whether the actor may edit the competition. Admins may
// edit anything, creators only their own records.
func CanModify(actor Actor, c Competition) bool {
	if actor.IsAnonymous() {
		return false
	}

	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleCreator:
		return actor.ID == c.OwnerID
	default:
		return false
	}
}

// CanDelete follows the same rule as CanModify; there is no delete-only role.
func CanDelete(actor Actor, c Competition) bool {
	return CanModify(actor, c)
}

// CanModerate reports whether the actor may approve, reject, feature or
// deactivate listings. Moderation never consults ownership.
func CanModerate(actor Actor) bool {
	return !actor.IsAnonymous() && actor.Role == RoleAdmin
}

// CanViewDetail reports whether the actor may see the full record. Approved
// competitions are public; owners and admins can preview pending ones.
func CanViewDetail(actor Actor, c Competition) bool {
	if c.IsApproved {
		return true
	}

	return CanModify(actor, c)
}

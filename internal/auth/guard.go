package auth

// CanModify is the ownership policy for mutable resources: only the
// recorded owner may change them. Callers map a denial to the same outcome
// as a missing resource so non-owners cannot probe for existence.
func CanModify(actorID, ownerID int64) bool {
	return actorID == ownerID
}

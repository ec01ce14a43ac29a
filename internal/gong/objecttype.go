package gong

// ObjectType identifies which remote schema and record shape applies to a
// batch. The set is fixed.
type ObjectType string

const (
	ObjectTypeAccount      ObjectType = "ACCOUNT"
	ObjectTypeBusinessUser ObjectType = "BUSINESS_USER"
	ObjectTypeContact      ObjectType = "CONTACT"
	ObjectTypeDeal         ObjectType = "DEAL"
	ObjectTypeLead         ObjectType = "LEAD"
	ObjectTypeStage        ObjectType = "STAGE"
)

// ParseObjectType validates a raw object type value.
func ParseObjectType(raw string) (ObjectType, bool) {
	switch ObjectType(raw) {
	case ObjectTypeAccount, ObjectTypeBusinessUser, ObjectTypeContact,
		ObjectTypeDeal, ObjectTypeLead, ObjectTypeStage:
		return ObjectType(raw), true
	}
	return "", false
}

package gong

import (
	"time"

	"github.com/jharper/crmsync/internal/domain"
)

// SchemaField declares one custom field the remote system must recognize
// before records carrying it are accepted.
type SchemaField struct {
	UniqueName       string     `json:"uniqueName"`
	Label            string     `json:"label"`
	Type             string     `json:"type"`
	OrderedValueList []string   `json:"orderedValueList,omitempty"`
	ReferenceTo      ObjectType `json:"referenceTo,omitempty"`
	LastModified     string     `json:"lastModified"`
	IsDeleted        bool       `json:"isDeleted"`
}

// Schema field type tags understood by the remote system.
const (
	FieldTypeString    = "STRING"
	FieldTypePicklist  = "PICKLIST"
	FieldTypeReference = "REFERENCE"
)

// objectSchema pairs an object type with its desired custom fields.
// Declaration order is the order schema checks and declarations run in.
type objectSchema struct {
	objectType ObjectType
	fields     []SchemaField
}

// desiredSchemas is the static desired-state table of custom fields per
// object type. It is not user-configurable at runtime.
func desiredSchemas(now time.Time) []objectSchema {
	lastModified := FormatTimestamp(now.UTC())

	industries := make([]string, len(domain.Industries))
	for i, industry := range domain.Industries {
		industries[i] = string(industry)
	}
	leadStatuses := make([]string, len(domain.LeadStatuses))
	for i, status := range domain.LeadStatuses {
		leadStatuses[i] = string(status)
	}

	return []objectSchema{
		{
			objectType: ObjectTypeAccount,
			fields: []SchemaField{
				{
					UniqueName:       "industry",
					Label:            "Industry",
					Type:             FieldTypePicklist,
					OrderedValueList: industries,
					LastModified:     lastModified,
				},
			},
		},
		{
			objectType: ObjectTypeDeal,
			fields: []SchemaField{
				{
					UniqueName:   "description",
					Label:        "Description",
					Type:         FieldTypeString,
					LastModified: lastModified,
				},
			},
		},
		{
			objectType: ObjectTypeLead,
			fields: []SchemaField{
				{
					UniqueName:   "ownerId",
					Label:        "Owner",
					Type:         FieldTypeReference,
					ReferenceTo:  ObjectTypeBusinessUser,
					LastModified: lastModified,
				},
				{
					UniqueName:       "status",
					Label:            "Status",
					Type:             FieldTypePicklist,
					OrderedValueList: leadStatuses,
					LastModified:     lastModified,
				},
				{
					UniqueName:   "account",
					Label:        "Account",
					Type:         FieldTypeString,
					LastModified: lastModified,
				},
				{
					UniqueName:   "details",
					Label:        "Details",
					Type:         FieldTypeString,
					LastModified: lastModified,
				},
			},
		},
	}
}

package record

import "github.com/google/uuid"

// IdeaList is a named collection of hangout ideas owned by a group.
type IdeaList struct {
	StorageRecord
	GroupID string `dynamodbav:"groupId"`
	ListID  string `dynamodbav:"listId"`
	Name    string `dynamodbav:"name"`
	Icon    string `dynamodbav:"icon,omitempty"`
}

// NewIdeaList creates an idea list for the given group.
func NewIdeaList(groupID, name, icon string) *IdeaList {
	l := &IdeaList{
		GroupID: groupID,
		ListID:  uuid.New().String(),
		Name:    name,
		Icon:    icon,
	}
	l.Stamp(TypeIdeaList)
	return l
}

// IdeaListMember is one idea inside a list.
type IdeaListMember struct {
	StorageRecord
	GroupID       string `dynamodbav:"groupId"`
	ListID        string `dynamodbav:"listId"`
	MemberID      string `dynamodbav:"memberId"`
	Title         string `dynamodbav:"title"`
	URL           string `dynamodbav:"url,omitempty"`
	Note          string `dynamodbav:"note,omitempty"`
	AddedByUserID string `dynamodbav:"addedByUserId,omitempty"`
}

// NewIdeaListMember adds an idea to a list.
func NewIdeaListMember(groupID, listID, title, addedBy string) *IdeaListMember {
	m := &IdeaListMember{
		GroupID:       groupID,
		ListID:        listID,
		MemberID:      uuid.New().String(),
		Title:         title,
		AddedByUserID: addedBy,
	}
	m.Stamp(TypeIdeaListMember)
	return m
}

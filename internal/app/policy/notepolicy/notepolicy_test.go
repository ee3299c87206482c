package notepolicy

import (
	"testing"

	"github.com/clubnexus/clubnexus/internal/domain/models"
)

func TestDecide_StudentNoteUndefinedForAdvisorsAndAdmins(t *testing.T) {
	admin := Requester{Email: "admin@x", Type: models.TypeAdmin, ClubRole: models.RoleAdmin}

	tests := []struct {
		name       string
		memberRole string
		want       Decision
	}{
		{"advisor member", models.RoleAdvisor, DenyUndefined},
		{"admin member", models.RoleAdmin, DenyUndefined},
		{"student member", models.RoleStudent, Allow},
		{"officer member", models.RoleOfficer, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(admin, models.NoteStudent, Member{Email: "m@x", ClubRole: tt.memberRole})
			if got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecide_SharedNotes(t *testing.T) {
	member := Member{Email: "m@x", ClubRole: models.RoleStudent}

	tests := []struct {
		name     string
		req      Requester
		noteType string
		want     Decision
	}{
		{"admin reads admin note", Requester{Type: models.TypeAdmin}, models.NoteAdmin, Allow},
		{"teacher denied admin note", Requester{Type: models.TypeTeacher}, models.NoteAdmin, Deny},
		{"student denied admin note", Requester{Type: models.TypeStudent}, models.NoteAdmin, Deny},

		{"admin reads advisor note", Requester{Type: models.TypeAdmin}, models.NoteAdvisor, Allow},
		{"teacher reads advisor note", Requester{Type: models.TypeTeacher}, models.NoteAdvisor, Allow},
		{"officer denied advisor note", Requester{Type: models.TypeStudent, ClubRole: models.RoleOfficer}, models.NoteAdvisor, Deny},

		{"teacher reads officer note", Requester{Type: models.TypeTeacher}, models.NoteOfficer, Allow},
		{"club officer reads officer note", Requester{Type: models.TypeStudent, ClubRole: models.RoleOfficer}, models.NoteOfficer, Allow},
		{"plain student denied officer note", Requester{Type: models.TypeStudent, ClubRole: models.RoleStudent}, models.NoteOfficer, Deny},

		{"club officer reads student note", Requester{Type: models.TypeStudent, ClubRole: models.RoleOfficer}, models.NoteStudent, Allow},
		{"plain student denied student note", Requester{Type: models.TypeStudent, ClubRole: models.RoleStudent}, models.NoteStudent, Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.req, tt.noteType, member)
			if got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecide_PersonalNotes(t *testing.T) {
	tests := []struct {
		name   string
		req    Requester
		member Member
		want   Decision
	}{
		{
			name:   "student reads own personal note",
			req:    Requester{Email: "s1@x", Type: models.TypeStudent, ClubRole: models.RoleStudent},
			member: Member{Email: "s1@x", ClubRole: models.RoleStudent},
			want:   Allow,
		},
		{
			name:   "student denied another member's personal note",
			req:    Requester{Email: "s1@x", Type: models.TypeStudent, ClubRole: models.RoleStudent},
			member: Member{Email: "s2@x", ClubRole: models.RoleStudent},
			want:   Deny,
		},
		{
			name:   "officer reads own personal note",
			req:    Requester{Email: "o1@x", Type: models.TypeStudent, ClubRole: models.RoleOfficer},
			member: Member{Email: "o1@x", ClubRole: models.RoleOfficer},
			want:   Allow,
		},
		{
			name:   "officer denied member-lookup of a student personal note",
			req:    Requester{Email: "o1@x", Type: models.TypeStudent, ClubRole: models.RoleOfficer},
			member: Member{Email: "s1@x", ClubRole: models.RoleStudent},
			want:   Deny,
		},
		{
			name:   "teacher reads any personal note",
			req:    Requester{Email: "t1@x", Type: models.TypeTeacher, ClubRole: models.RoleAdvisor},
			member: Member{Email: "s1@x", ClubRole: models.RoleStudent},
			want:   Allow,
		},
		{
			name:   "admin reads any personal note",
			req:    Requester{Email: "a1@x", Type: models.TypeAdmin, ClubRole: models.RoleAdmin},
			member: Member{Email: "s1@x", ClubRole: models.RoleStudent},
			want:   Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.req, models.NotePersonal, tt.member)
			if got != tt.want {
				t.Errorf("Decide = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecide_UnmatchedDenies(t *testing.T) {
	// Unknown requester type falls through every allow rule.
	got := Decide(Requester{Email: "x@x", Type: "ghost"}, models.NotePersonal, Member{Email: "x@x"})
	if got != Deny {
		t.Errorf("Decide = %v, want Deny", got)
	}
}

package model

// Capability names a single permission carried by a Role.
type Capability int

const (
	CanComment Capability = iota + 1
	CanCreateBlog
	CanModerate
	IsAdmin
)

func (c Capability) String() string {
	switch c {
	case CanComment:
		return "canComment"
	case CanCreateBlog:
		return "canCreateBlog"
	case CanModerate:
		return "canModerate"
	case IsAdmin:
		return "isAdmin"
	}
	return "unknown"
}

// Has reports whether the role grants c. It does not apply the admin bypass;
// use User.Can for authorization decisions.
func (r *Role) Has(c Capability) bool {
	if r == nil {
		return false
	}
	switch c {
	case CanComment:
		return r.CanComment
	case CanCreateBlog:
		return r.CanCreateBlog
	case CanModerate:
		return r.CanModerate
	case IsAdmin:
		return r.IsAdmin
	}
	return false
}

// DefaultRoles is the role catalogue upserted on every start.
func DefaultRoles() []Role {
	return []Role{
		{Title: "reader", CanComment: true},
		{Title: "author", CanComment: true, CanCreateBlog: true},
		{Title: "moderator", CanComment: true, CanCreateBlog: true, CanModerate: true},
		{Title: "admin", CanComment: true, CanCreateBlog: true, CanModerate: true, IsAdmin: true},
	}
}

// DefaultRoleTitle is assigned to self-registered users.
const DefaultRoleTitle = "reader"

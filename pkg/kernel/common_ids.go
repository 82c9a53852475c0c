package kernel

// TenantID is the public identifier of a registered client application,
// e.g. "APP.20240101120000.aZ3kQ9xP".
type TenantID string

func NewTenantID(id string) TenantID { return TenantID(id) }
func (t TenantID) String() string    { return string(t) }
func (t TenantID) IsEmpty() bool     { return string(t) == "" }

// SubjectID is the stable external id of an end user inside a tenant,
// e.g. "user.20240101120000.Qw8rT2mN".
type SubjectID string

func NewSubjectID(id string) SubjectID { return SubjectID(id) }
func (s SubjectID) String() string     { return string(s) }
func (s SubjectID) IsEmpty() bool      { return string(s) == "" }

// OwnerRef identifies the organization account that owns tenants. It is
// the organization's email address.
type OwnerRef string

func NewOwnerRef(email string) OwnerRef { return OwnerRef(email) }
func (o OwnerRef) String() string       { return string(o) }
func (o OwnerRef) IsEmpty() bool        { return string(o) == "" }

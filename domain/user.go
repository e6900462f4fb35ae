package domain

type User struct {
	ID        int64  `json:"id" db:"id"`
	FullName  string `json:"fullName" db:"full_name"`
	Username  string `json:"username" db:"username"`
	Password  string `json:"password,omitempty" db:"password"`
	StoreName string `json:"storename" db:"storename"`
	Role      string `json:"role" db:"role"`
	CreatedAt string `json:"createdAt,omitempty" db:"created_at"`
}

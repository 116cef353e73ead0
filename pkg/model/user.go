package model

type User struct {
	ID        string   `json:"id,omitempty"`
	Nama      string   `json:"nama" validate:"required,min=2,max=100"`
	Email     string   `json:"email" validate:"required,email"`
	NoHP      string   `json:"noHp,omitempty" validate:"omitempty,e164"`
	Password  string   `json:"password,omitempty" validate:"omitempty,min=8"`
	Role      Role     `json:"role" validate:"required,oneof=SUPERADMIN ADMIN USER"`
	IDJurusan string   `json:"idJurusan,omitempty"`
	Jurusan   *Jurusan `json:"jurusan,omitempty"`
}

type Jurusan struct {
	ID   string `json:"id,omitempty"`
	Nama string `json:"nama" validate:"required,min=2,max=100"`
	Kode string `json:"kode,omitempty" validate:"omitempty,max=20"`
}

type Gedung struct {
	ID           string `json:"id,omitempty"`
	Nama         string `json:"nama" validate:"required,min=2,max=100"`
	Kode         string `json:"kode,omitempty" validate:"omitempty,max=20"`
	JumlahLantai int    `json:"jumlahLantai,omitempty" validate:"omitempty,min=1"`
}

type Shift struct {
	ID         string `json:"id,omitempty"`
	Nama       string `json:"nama" validate:"required,min=2,max=50"`
	JamMulai   string `json:"jamMulai" validate:"required,hhmm"`
	JamSelesai string `json:"jamSelesai" validate:"required,hhmm"`
}

// LoginRequest and LoginResult mirror POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

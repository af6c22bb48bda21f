package entity

import "time"

type Endereco struct {
	ID     int64  `json:"id" firestore:"id"`
	Cep    string `json:"cep" firestore:"cep"`
	Rua    string `json:"rua" firestore:"rua"`
	Bairro string `json:"bairro" firestore:"bairro"`
	Cidade string `json:"cidade" firestore:"cidade"`
	UF     string `json:"uf" firestore:"uf"`
}

// User is the server-owned profile. The client only keeps a read-only copy.
type User struct {
	ID         int64     `json:"id" firestore:"id"`
	Nome       string    `json:"nome" firestore:"nome"`
	Sobrenome  string    `json:"sobrenome" firestore:"sobrenome"`
	Email      string    `json:"email" firestore:"email"`
	Celular    string    `json:"celular" firestore:"celular"`
	RoleAdmin  bool      `json:"roleAdmin" firestore:"roleAdmin"`
	FotoURL    string    `json:"fotoUrl" firestore:"fotoUrl"`
	EnderecoID int64     `json:"enderecoId,omitempty" firestore:"enderecoId"`
	Cep        string    `json:"cep,omitempty" firestore:"cep"`
	Endereco   *Endereco `json:"endereco,omitempty" firestore:"endereco,omitempty"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (u *User) FullName() string {
	if u.Sobrenome == "" {
		return u.Nome
	}
	return u.Nome + " " + u.Sobrenome
}

type Credentials struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,senha"`
}

type Registration struct {
	Nome           string `json:"nome" validate:"required"`
	Sobrenome      string `json:"sobrenome" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Celular        string `json:"celular" validate:"required"`
	Cep            string `json:"cep" validate:"required"`
	Senha          string `json:"senha" validate:"required"`
	ConfirmarSenha string `json:"confirmarSenha" validate:"required,eqfield=Senha"`
}

// ProfilePatch is the editable draft of a profile; nil fields are left untouched.
type ProfilePatch struct {
	Nome      *string `json:"nome,omitempty"`
	Sobrenome *string `json:"sobrenome,omitempty"`
	Celular   *string `json:"celular,omitempty"`
	Cep       *string `json:"cep,omitempty"`
}

func (p ProfilePatch) Empty() bool {
	return p.Nome == nil && p.Sobrenome == nil && p.Celular == nil && p.Cep == nil
}

// Upload is a file picked by the user, kept in memory until it is sent.
type Upload struct {
	Filename string
	Content  []byte
}

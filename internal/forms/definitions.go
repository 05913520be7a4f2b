package forms

// Field names match the names used in the HTML forms.
const (
	FieldName        = "nome"
	FieldEmail       = "email"
	FieldPassword    = "senha"
	FieldUsername    = "username"
	FieldLoginSecret = "password"
	FieldDate        = "data"
	FieldDescription = "descricao"
)

// Register is the account creation form.
var Register = &Definition{
	Fields: []string{FieldName, FieldEmail, FieldPassword},
	Secret: []string{FieldPassword},
	Rules: []Rule{
		{Field: FieldName, Tag: "required", Message: "Informe seu nome."},
		{Field: FieldEmail, Tag: "required", Message: "Informe seu email."},
		{Field: FieldEmail, Tag: "email", Message: "Email inválido."},
		{Field: FieldPassword, Tag: "min=6,max=20", Message: "A senha deve ter entre 6 e 20 caracteres."},
	},
}

// Login is the sign-in form.
var Login = &Definition{
	Fields: []string{FieldUsername, FieldLoginSecret},
	Secret: []string{FieldLoginSecret},
	Rules: []Rule{
		{Field: FieldUsername, Tag: "required", Message: "Informe seu usuário."},
		{Field: FieldLoginSecret, Tag: "required", Message: "Informe sua senha."},
	},
}

// Event is shared by the create and edit pages.
var Event = &Definition{
	Fields: []string{FieldName, FieldDate, FieldDescription},
	Rules: []Rule{
		{Field: FieldName, Tag: "required", Message: "Informe o nome do evento."},
		{Field: FieldName, Tag: "max=200", Message: "O nome deve ter no máximo 200 caracteres."},
		{Field: FieldName, Tag: "nomarkup", Message: "O nome não pode conter HTML."},
		{Field: FieldDate, Tag: "required", Message: "Informe a data do evento."},
		{Field: FieldDate, Tag: "datetime=" + DateLayout, Message: "Data inválida. Use o formato AAAA-MM-DD."},
		{Field: FieldDescription, Tag: "max=2000", Message: "A descrição deve ter no máximo 2000 caracteres."},
		{Field: FieldDescription, Tag: "nomarkup", Message: "A descrição não pode conter HTML."},
	},
}

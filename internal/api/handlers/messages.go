package handlers

// Flash messages shown to the user.
const (
	MsgAccountCreated    = "Conta criada com sucesso!"
	MsgEmailTaken        = "Este email já está em uso."
	MsgLoginFailed       = "Login falhou. Verifique seu usuário e senha."
	MsgLoggedOut         = "Você foi desconectado com sucesso."
	MsgEventCreated      = "Evento criado com sucesso!"
	MsgEventUpdated      = "Evento atualizado com sucesso!"
	MsgEventDeleted      = "Evento excluído com sucesso!"
	MsgCannotEditEvent   = "Você não tem permissão para editar este evento."
	MsgCannotDeleteEvent = "Você não tem permissão para excluir este evento."
	MsgBadRequest        = "Não foi possível ler o formulário enviado."
	MsgTooManyLogins     = "Muitas tentativas de login. Aguarde alguns minutos e tente novamente."
)

package model

// SyncOutcome итог последней синхронизации локальных карточек.
type SyncOutcome string

const (
	SyncNone           SyncOutcome = ""
	SyncSuccess        SyncOutcome = "success"
	SyncPartialFailure SyncOutcome = "partial_failure"
)

// ConflictPair локальная карточка (без id) и совпавшая с ней по имени и компании серверная.
type ConflictPair struct {
	Local  Card
	Server Card
}

// Credentials сохранённая сессия клиента.
type Credentials struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

package models

type SenderCredential struct {
	Username    string
	Password    string
	FromAddress string
}

type EmailMessage struct {
	To      string
	Subject string
	Body    string
	CC      string
	Sender  SenderCredential
}

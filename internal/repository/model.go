package repository

type InterviewStatus string

const (
	InterviewStatusDelivered InterviewStatus = "delivered"
)

package domain

import "time"

// Customer is a client of a business.
type Customer struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID int64     `gorm:"not null;index" json:"business_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255)" json:"email"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
	Address    string    `gorm:"type:text" json:"address"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// Employee is a member of a business who can be assigned jobs.
type Employee struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID int64     `gorm:"not null;index" json:"business_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255)" json:"email"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
	Role       string    `gorm:"type:varchar(50)" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Estimate is a quote that may turn into a job.
type Estimate struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID  int64     `gorm:"not null;index" json:"business_id"`
	CustomerID  int64     `gorm:"not null;index" json:"customer_id"`
	Title       string    `gorm:"type:varchar(255)" json:"title"`
	TotalAmount *float64  `gorm:"type:decimal(12,2)" json:"total_amount"`
	Status      string    `gorm:"type:varchar(20)" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Estimate) TableName() string {
	return "estimates"
}

// CustomerSummary is the slice of a customer embedded in job responses.
type CustomerSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type EmployeeSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type EstimateSummary struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	TotalAmount *float64 `json:"total_amount"`
	Status      string   `json:"status"`
}

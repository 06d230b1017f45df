package customer

type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func NewCustomer(name, phone string) *Customer {
	return &Customer{
		Name:  name,
		Phone: phone,
	}
}

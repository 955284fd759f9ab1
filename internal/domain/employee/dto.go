package employee

type EmployeeResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	Email        string `json:"email,omitempty"`
	Department   string `json:"department"`
	Role         Role   `json:"role"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Department:   e.Department,
		Role:         e.Role,
	}
}

// IndexByID builds a lookup table from a roster listing.
func IndexByID(employees []Employee) map[string]Employee {
	index := make(map[string]Employee, len(employees))
	for _, e := range employees {
		index[e.ID] = e
	}
	return index
}

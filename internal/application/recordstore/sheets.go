package recordstore

// Nombres de las hojas del libro.
const (
	SheetUsers     = "Users"
	SheetOrders    = "Orders"
	SheetCustomers = "Customers"
)

type sheetDefinition struct {
	name    string
	headers []string
}

// definitions encabezados de cada hoja; la fila 0 siempre es el encabezado.
var definitions = []sheetDefinition{
	{name: SheetUsers, headers: []string{"id", "name", "email", "password", "role", "createdAt"}},
	{name: SheetOrders, headers: []string{"id", "json_data", "status", "dueDate", "updatedAt"}},
	{name: SheetCustomers, headers: []string{"id", "json_data", "phone", "name", "updatedAt"}},
}

// Columnas de Users.
const (
	colUserID = iota
	colUserName
	colUserEmail
	colUserPassword
	colUserRole
)

// Columnas comunes de Orders y Customers.
const (
	colRecordID   = 0
	colRecordJSON = 1
)

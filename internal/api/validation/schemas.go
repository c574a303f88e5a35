package validation

// Schema names used in the route table.
const (
	CreateUser      = "create-user"
	UpdateUser      = "update-user"
	Login           = "login"
	ChangePassword  = "change-password"
	RequestPassword = "request-password"
	CreateCategory  = "create-category"
	UpdateCategory  = "update-category"
	CreateProduct   = "create-product"
	UpdateProduct   = "update-product"
	CreateOrder     = "create-order"
	UpdateOrder     = "update-order"
)

const (
	nameRules     = "min=1,max=50"
	passwordRules = "min=3,max=72,maxbytes=72"
	quantityRules = "gte=1,lte=10000"
)

// Storefront returns every schema the API validates against.
func Storefront() []Schema {
	return []Schema{
		{Name: CreateUser, Fields: []Field{
			{Name: "firstname", Type: String, Required: true, Rules: nameRules, Trim: true},
			{Name: "lastname", Type: String, Required: true, Rules: nameRules, Trim: true},
			{Name: "email", Type: Email, Required: true},
			{Name: "password", Type: String, Required: true, Rules: passwordRules},
			{Name: "role", Type: String, Rules: "oneof=customer admin", Trim: true},
			{Name: "avatar", Type: String, Trim: true},
		}},
		{Name: UpdateUser, Fields: []Field{
			{Name: "firstname", Type: String, Rules: nameRules, Trim: true},
			{Name: "lastname", Type: String, Rules: nameRules, Trim: true},
			{Name: "email", Type: Email},
			{Name: "avatar", Type: String, Trim: true},
		}},
		{Name: Login, Fields: []Field{
			{Name: "email", Type: Email, Required: true},
			{Name: "password", Type: String, Required: true, Rules: "maxbytes=72"},
		}},
		{Name: ChangePassword, Fields: []Field{
			{Name: "email", Type: Email, Required: true},
			{Name: "password", Type: String, Required: true, Rules: "maxbytes=72"},
			{Name: "newPassword", Type: String, Required: true, Rules: passwordRules},
		}},
		{Name: RequestPassword, Fields: []Field{
			{Name: "email", Type: Email, Required: true},
		}},
		{Name: CreateCategory, Fields: []Field{
			{Name: "name", Type: String, Required: true, Rules: nameRules, Trim: true},
			{Name: "image", Type: String, Required: true},
		}},
		{Name: UpdateCategory, Fields: []Field{
			{Name: "name", Type: String, Rules: nameRules, Trim: true},
			{Name: "image", Type: String},
		}},
		{Name: CreateProduct, Fields: []Field{
			{Name: "title", Type: String, Required: true, Rules: nameRules, Trim: true},
			{Name: "price", Type: Number, Required: true, Rules: "gte=0"},
			{Name: "description", Type: String, Required: true, Trim: true},
			{Name: "image", Type: String, Required: true},
			{Name: "categoryId", Type: String, Required: true, Trim: true},
		}},
		{Name: UpdateProduct, Fields: []Field{
			{Name: "title", Type: String, Rules: nameRules, Trim: true},
			{Name: "price", Type: Number, Rules: "gte=0"},
			{Name: "description", Type: String, Trim: true},
			{Name: "image", Type: String},
			{Name: "categoryId", Type: String, Trim: true},
		}},
		{Name: CreateOrder, Fields: []Field{
			{Name: "productId", Type: String, Required: true, Trim: true},
			{Name: "quantity", Type: Integer, Required: true, Rules: quantityRules},
		}},
		// Either field may be omitted; the order's line keeps its current value.
		{Name: UpdateOrder, Fields: []Field{
			{Name: "productId", Type: String, Trim: true},
			{Name: "quantity", Type: Integer, Rules: quantityRules},
		}},
	}
}

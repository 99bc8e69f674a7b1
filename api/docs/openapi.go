// Package docs publishes the OpenAPI description of the HTTP API.
package docs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/angelmondragon/foodorder-backend/internal/auth"
	"github.com/angelmondragon/foodorder-backend/internal/cart"
	"github.com/angelmondragon/foodorder-backend/internal/catalog"
	"github.com/angelmondragon/foodorder-backend/internal/contact"
	"github.com/angelmondragon/foodorder-backend/internal/orders"
	"github.com/angelmondragon/foodorder-backend/internal/tracking"
	"github.com/angelmondragon/foodorder-backend/internal/users"
	"github.com/angelmondragon/foodorder-backend/pkg/pagination"
	"github.com/angelmondragon/foodorder-backend/pkg/types"
)

const bearerScheme = "bearerAuth"

type access int

const (
	public access = iota
	user
	admin
)

type route struct {
	method   string
	path     string
	summary  string
	tag      string
	access   access
	request  any
	status   int
	response any
}

type messageCart struct {
	Message string       `json:"message"`
	Cart    cart.CartDTO `json:"cart"`
}

type messageOrder struct {
	Message string          `json:"message"`
	Order   orders.OrderDTO `json:"order"`
}

var routes = []route{
	{http.MethodPost, "/auth/register", "Register a customer account", "auth", public, auth.RegisterRequest{}, http.StatusCreated, users.UserDTO{}},
	{http.MethodPost, "/auth/login", "Exchange credentials for tokens", "auth", public, auth.LoginRequest{}, http.StatusOK, auth.LoginResponse{}},
	{http.MethodPost, "/auth/refresh", "Rotate the refresh session", "auth", public, auth.RefreshRequest{}, http.StatusOK, auth.LoginResponse{}},
	{http.MethodPost, "/auth/logout", "Revoke the current session", "auth", user, nil, http.StatusOK, types.MessageResponse{}},

	{http.MethodPost, "/cart", "Add an item to the cart", "cart", user, cart.AddItemRequest{}, http.StatusCreated, messageCart{}},
	{http.MethodGet, "/cart", "Show the cart", "cart", user, nil, http.StatusOK, cart.CartDTO{}},
	{http.MethodPut, "/cart/item/{itemId}", "Update a cart line", "cart", user, cart.UpdateItemRequest{}, http.StatusOK, messageCart{}},
	{http.MethodDelete, "/cart/item/{itemId}", "Remove a cart line", "cart", user, nil, http.StatusOK, messageCart{}},
	{http.MethodDelete, "/cart", "Empty the cart", "cart", user, nil, http.StatusOK, types.MessageResponse{}},

	{http.MethodPost, "/order/order", "Place an order", "orders", user, orders.PlaceOrderRequest{}, http.StatusCreated, messageOrder{}},
	{http.MethodGet, "/order/orders", "List the caller's orders", "orders", user, nil, http.StatusOK, []orders.OrderDTO{}},
	{http.MethodGet, "/order/order/{id}", "Get one of the caller's orders", "orders", user, nil, http.StatusOK, orders.OrderDTO{}},

	{http.MethodGet, "/tracking/orders/{orderId}/status", "Order progress", "tracking", public, nil, http.StatusOK, tracking.StatusDTO{}},
	{http.MethodPost, "/tracklocation/orders/update-step", "Move an order to a step", "tracking", admin, orders.AdvanceStepRequest{}, http.StatusOK, messageOrder{}},
	{http.MethodGet, "/tracklocation/orders", "All orders, newest first", "tracking", admin, nil, http.StatusOK, pagination.Page[orders.OrderDTO]{}},

	{http.MethodGet, "/categories", "Active categories", "catalog", public, nil, http.StatusOK, []catalog.CategoryDTO{}},
	{http.MethodGet, "/subcategories", "All subcategories", "catalog", public, nil, http.StatusOK, []catalog.SubcategoryDTO{}},
	{http.MethodGet, "/subcategories/category/{categoryId}", "Subcategories of a category", "catalog", public, nil, http.StatusOK, []catalog.SubcategoryDTO{}},
	{http.MethodGet, "/subcategories/{id}", "One subcategory", "catalog", public, nil, http.StatusOK, catalog.SubcategoryDTO{}},
	{http.MethodGet, "/subcategories/items/{subcategoryId}", "Items of a subcategory", "catalog", public, nil, http.StatusOK, catalog.SubcategoryItems{}},
	{http.MethodGet, "/items", "All menu items", "catalog", public, nil, http.StatusOK, []catalog.ItemDTO{}},
	{http.MethodGet, "/items/subcategory/{subcategoryId}", "Items of a subcategory", "catalog", public, nil, http.StatusOK, catalog.SubcategoryItems{}},
	{http.MethodGet, "/items/{id}", "One menu item", "catalog", public, nil, http.StatusOK, catalog.ItemDTO{}},
	{http.MethodGet, "/chefs", "Chefs", "catalog", public, nil, http.StatusOK, []catalog.ChefDTO{}},

	{http.MethodPost, "/contact", "Send a contact message", "contact", public, contact.SubmitRequest{}, http.StatusOK, types.MessageResponse{}},

	{http.MethodGet, "/admin/orders", "Order history page", "admin", admin, nil, http.StatusOK, pagination.Page[orders.OrderDTO]{}},
	{http.MethodDelete, "/admin/orders/{orderId}", "Delete an order", "admin", admin, nil, http.StatusOK, types.MessageResponse{}},
	{http.MethodPost, "/admin/categories", "Create a category", "admin", admin, catalog.CreateCategoryRequest{}, http.StatusCreated, catalog.CategoryDTO{}},
	{http.MethodPost, "/admin/subcategories", "Create a subcategory", "admin", admin, catalog.CreateSubcategoryRequest{}, http.StatusCreated, catalog.SubcategoryDTO{}},
	{http.MethodPost, "/admin/items", "Create a menu item", "admin", admin, catalog.CreateItemRequest{}, http.StatusCreated, catalog.ItemDTO{}},
	{http.MethodDelete, "/admin/items/{id}", "Delete a menu item", "admin", admin, nil, http.StatusOK, types.MessageResponse{}},
	{http.MethodPost, "/admin/chefs", "Create a chef", "admin", admin, catalog.CreateChefRequest{}, http.StatusCreated, catalog.ChefDTO{}},
	{http.MethodGet, "/admin/contact", "Contact messages", "admin", admin, nil, http.StatusOK, []contact.MessageDTO{}},

	{http.MethodGet, "/health/live", "Liveness", "health", public, nil, http.StatusOK, nil},
	{http.MethodGet, "/health/ready", "Readiness of db and redis", "health", public, nil, http.StatusOK, nil},
}

var (
	uuidType    = reflect.TypeOf(uuid.UUID{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// customizeSchema renders uuids and decimals the way they marshal: as strings.
func customizeSchema(_ string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	switch t {
	case uuidType:
		*schema = *openapi3.NewStringSchema().WithFormat("uuid")
	case decimalType:
		*schema = *openapi3.NewStringSchema().WithPattern(`^-?\d+(\.\d+)?$`)
	}
	return nil
}

// Build assembles the OpenAPI 3 document for the API.
func Build(version string) (*openapi3.T, error) {
	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Food Order API",
			Description: "Cart, order and delivery tracking endpoints.",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
			SecuritySchemes: openapi3.SecuritySchemes{
				bearerScheme: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
	}

	errorSchema, err := schemaFor(types.ErrorEnvelope{})
	if err != nil {
		return nil, err
	}

	for _, rt := range routes {
		op := openapi3.NewOperation()
		op.Summary = rt.summary
		op.Tags = []string{rt.tag}
		op.OperationID = operationID(rt.method, rt.path)
		op.Responses = &openapi3.Responses{}

		for _, name := range pathParams(rt.path) {
			op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
		}
		if rt.access != public {
			op.Security = &openapi3.SecurityRequirements{openapi3.NewSecurityRequirement().Authenticate(bearerScheme)}
		}
		if rt.path == "/order/order" && rt.method == http.MethodPost {
			op.AddParameter(openapi3.NewHeaderParameter("Idempotency-Key").WithSchema(openapi3.NewStringSchema()))
		}

		if rt.request != nil {
			reqSchema, err := schemaFor(rt.request)
			if err != nil {
				return nil, fmt.Errorf("%s %s request: %w", rt.method, rt.path, err)
			}
			// PUT bodies carry only optional fields; an empty body means {}.
			op.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(rt.method != http.MethodPut).WithJSONSchemaRef(reqSchema),
			}
		}

		okSchema := openapi3.NewObjectSchema()
		if rt.response != nil {
			data, err := schemaFor(rt.response)
			if err != nil {
				return nil, fmt.Errorf("%s %s response: %w", rt.method, rt.path, err)
			}
			okSchema = okSchema.WithPropertyRef("data", data)
		}
		op.AddResponse(rt.status, openapi3.NewResponse().WithDescription(http.StatusText(rt.status)).WithJSONSchema(okSchema))
		op.Responses.Set("default", &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Error envelope").WithJSONSchemaRef(errorSchema),
		})

		spec.AddOperation(rt.path, rt.method, op)
	}
	return spec, nil
}

func schemaFor(value any) (*openapi3.SchemaRef, error) {
	return openapi3gen.NewSchemaRefForValue(value, nil, openapi3gen.SchemaCustomizer(customizeSchema))
}

func pathParams(path string) []string {
	var names []string
	for _, segment := range strings.Split(path, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			names = append(names, strings.Trim(segment, "{}"))
		}
	}
	return names
}

func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, segment := range strings.Split(path, "/") {
		segment = strings.Trim(segment, "{}")
		for _, part := range strings.Split(segment, "-") {
			if part == "" {
				continue
			}
			b.WriteString(strings.ToUpper(part[:1]))
			b.WriteString(part[1:])
		}
	}
	return b.String()
}

// Document holds the rendered forms of the spec.
type Document struct {
	JSON []byte
	YAML []byte
}

func Render(spec *openapi3.T) (*Document, error) {
	jsonBytes, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi json: %w", err)
	}
	yamlBytes, err := yaml.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi yaml: %w", err)
	}
	return &Document{JSON: jsonBytes, YAML: yamlBytes}, nil
}

func (d *Document) ServeJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(d.JSON)
}

func (d *Document) ServeYAML(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(d.YAML)
}

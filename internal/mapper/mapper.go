package mapper

import (
	"github.com/nordvik-as/sales-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:            client.ID,
		Name:          client.Name,
		OrgNumber:     client.OrgNumber,
		Email:         client.Email,
		Phone:         client.Phone,
		Address:       client.Address,
		City:          client.City,
		PostalCode:    client.PostalCode,
		Country:       client.Country,
		ContactPerson: client.ContactPerson,
		IsActive:      client.IsActive,
		CreatedAt:     client.CreatedAt.Format(timeFormat),
		UpdatedAt:     client.UpdatedAt.Format(timeFormat),
	}
}

// ToEmployeeDTO converts Employee to EmployeeDTO
func ToEmployeeDTO(employee *domain.Employee) domain.EmployeeDTO {
	return domain.EmployeeDTO{
		ID:         employee.ID,
		FirstName:  employee.FirstName,
		LastName:   employee.LastName,
		FullName:   employee.FullName(),
		Email:      employee.Email,
		Title:      employee.Title,
		Department: employee.Department,
		IsActive:   employee.IsActive,
		CreatedAt:  employee.CreatedAt.Format(timeFormat),
		UpdatedAt:  employee.UpdatedAt.Format(timeFormat),
	}
}

// ToProductDTO converts Product to ProductDTO
func ToProductDTO(product *domain.Product) domain.ProductDTO {
	return domain.ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		SKU:         product.SKU,
		Description: product.Description,
		Unit:        product.Unit,
		Price:       product.Price,
		Currency:    product.Currency,
		Tags:        product.Tags,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt.Format(timeFormat),
		UpdatedAt:   product.UpdatedAt.Format(timeFormat),
	}
}

// ToQuoteDTO converts Quote to QuoteDTO
func ToQuoteDTO(quote *domain.Quote) domain.QuoteDTO {
	dto := domain.QuoteDTO{
		ID:          quote.ID,
		QuoteNumber: quote.QuoteNumber,
		ClientID:    quote.ClientID,
		EmployeeID:  quote.EmployeeID,
		Status:      quote.Status,
		Items:       make([]domain.LineItemDTO, 0, len(quote.Items)),
		Total:       quote.Total,
		Currency:    quote.Currency,
		Notes:       quote.Notes,
		CreatedAt:   quote.CreatedAt.Format(timeFormat),
		UpdatedAt:   quote.UpdatedAt.Format(timeFormat),
	}

	if quote.Client != nil {
		dto.ClientName = quote.Client.Name
	}
	if quote.Employee != nil {
		dto.EmployeeName = quote.Employee.FullName()
	}
	if quote.ValidUntil != nil {
		validUntil := quote.ValidUntil.Format("2006-01-02")
		dto.ValidUntil = &validUntil
	}
	if quote.Order != nil {
		dto.OrderID = &quote.Order.ID
	}

	for i := range quote.Items {
		item := &quote.Items[i]
		lineItem := domain.LineItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
		if item.Product != nil {
			lineItem.ProductName = item.Product.Name
		}
		dto.Items = append(dto.Items, lineItem)
	}

	return dto
}

// ToOrderDTO converts Order to OrderDTO
func ToOrderDTO(order *domain.Order) domain.OrderDTO {
	dto := domain.OrderDTO{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		ClientID:    order.ClientID,
		EmployeeID:  order.EmployeeID,
		QuoteID:     order.QuoteID,
		Status:      order.Status,
		Items:       make([]domain.LineItemDTO, 0, len(order.Items)),
		Total:       order.Total,
		Currency:    order.Currency,
		Notes:       order.Notes,
		CreatedAt:   order.CreatedAt.Format(timeFormat),
		UpdatedAt:   order.UpdatedAt.Format(timeFormat),
	}

	if order.Client != nil {
		dto.ClientName = order.Client.Name
	}
	if order.Quote != nil {
		dto.QuoteNumber = order.Quote.QuoteNumber
	}
	if order.Invoice != nil {
		dto.InvoiceID = &order.Invoice.ID
	}

	for i := range order.Items {
		item := &order.Items[i]
		lineItem := domain.LineItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
		if item.Product != nil {
			lineItem.ProductName = item.Product.Name
		}
		dto.Items = append(dto.Items, lineItem)
	}

	return dto
}

// ToInvoiceDTO converts Invoice to InvoiceDTO
func ToInvoiceDTO(invoice *domain.Invoice) domain.InvoiceDTO {
	dto := domain.InvoiceDTO{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		ClientID:      invoice.ClientID,
		OrderID:       invoice.OrderID,
		Status:        invoice.Status,
		Total:         invoice.Total,
		Currency:      invoice.Currency,
		DueDate:       invoice.DueDate.Format(timeFormat),
		PaymentMethod: invoice.PaymentMethod,
		Notes:         invoice.Notes,
		CreatedAt:     invoice.CreatedAt.Format(timeFormat),
		UpdatedAt:     invoice.UpdatedAt.Format(timeFormat),
	}

	if invoice.Client != nil {
		dto.ClientName = invoice.Client.Name
	}
	if invoice.Order != nil {
		dto.OrderNumber = invoice.Order.OrderNumber
	}
	if invoice.PaidAt != nil {
		paidAt := invoice.PaidAt.Format(timeFormat)
		dto.PaidAt = &paidAt
	}

	return dto
}

package conversation

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/pedidoz-backend/pkg/enums"
)

// Menu and confirmation option identifiers carried in interactive replies.
const (
	MenuPlaceOrderID  = "MENU_REALIZAR_PEDIDO"
	MenuCreditID      = "MENU_CONSULTAR_CREDITO"
	MenuOrderStatusID = "MENU_ESTADO_PEDIDO"

	CartConfirmID = "CART_CONFIRMAR"
	CartAddMoreID = "CART_AGREGAR"

	ConfirmYesID = "CONFIRMAR_SI"
	ConfirmNoID  = "CONFIRMAR_NO"
)

// defaultUnit is assumed for products that configure no presentations.
const defaultUnit = "unidad"

const (
	replyMainMenuHeader = "¡Hola! ¿Cómo puedo ayudarte hoy?"
	replyMainMenuBody   = "Selecciona una opción:"
	replyAskProduct     = "¡Excelente! ¿Qué producto te gustaría añadir a tu pedido?"
	replyCanceled       = "Operación cancelada. ¿Hay algo más en lo que pueda ayudarte?"
	replyApology        = "Lo siento, hubo un error inesperado en el bot. Por favor, intenta de nuevo."
	replyUnsupported    = "Lo siento, por ahora solo puedo procesar mensajes de texto y selecciones de menú."
	replyCreditStub     = "Tu línea de crédito disponible es: $15,000 USD."
	replyAskOrderNumber = "Para consultar el estado de tu pedido, por favor, dime el número de pedido."
	replyBadOrderNumber = "Por favor, envíame solo el número de pedido."
	replyNothingAdded   = "No pude agregar ningún producto. Descríbeme lo que necesitas, por ejemplo: \"5 cajas de cerveza y 3 gaseosas\"."
	replyCartButton     = "Ver opciones"
	replyListButton     = "Ver productos"
)

// Choice is one selectable option in an interactive reply, keyed by an
// identifier the inbound webhook hands back verbatim.
type Choice struct {
	ID          string
	Title       string
	Description string
}

// Reply is one outbound message directive. Kind text carries only Body;
// kind choice carries Options and the transport decides buttons vs. list.
type Reply struct {
	Kind        enums.MessagePayloadKind
	Header      string
	Body        string
	ButtonLabel string
	Options     []Choice
}

func textReply(body string) Reply {
	return Reply{Kind: enums.MessagePayloadText, Body: body}
}

func choiceReply(header, body, buttonLabel string, options []Choice) Reply {
	return Reply{
		Kind:        enums.MessagePayloadChoice,
		Header:      header,
		Body:        body,
		ButtonLabel: buttonLabel,
		Options:     options,
	}
}

func mainMenuReply() Reply {
	return choiceReply(replyMainMenuHeader, replyMainMenuBody, replyCartButton, []Choice{
		{ID: MenuPlaceOrderID, Title: "🛒 Realizar Pedido"},
		{ID: MenuCreditID, Title: "💳 Consultar Crédito"},
		{ID: MenuOrderStatusID, Title: "📦 Estado de Pedido"},
	})
}

func notFoundReply(segment string) Reply {
	return textReply(fmt.Sprintf("No encontré %q en el catálogo. ¿Puedes describirlo de otra forma?", segment))
}

func askQuantityReply(product ProductRef) Reply {
	return textReply(fmt.Sprintf("¿Qué cantidad de %s deseas?", product.Name))
}

func askUnitReply(product ProductRef) Reply {
	options := make([]Choice, 0, len(product.Units))
	for _, unit := range product.Units {
		options = append(options, Choice{ID: unit, Title: unit})
	}
	body := fmt.Sprintf("¿En qué presentación deseas %s?", product.Name)
	return choiceReply("", body, replyCartButton, options)
}

func cartSummaryReply(cart []LineItem) Reply {
	var b strings.Builder
	b.WriteString("🛒 Tu pedido:\n")
	for _, line := range cart {
		fmt.Fprintf(&b, "• %d %s de %s\n", line.Qty, line.Unit, line.Name)
	}
	b.WriteString("\n¿Qué deseas hacer? También puedes escribir *eliminar <número>* para quitar una línea.")
	return choiceReply("", b.String(), replyCartButton, []Choice{
		{ID: CartConfirmID, Title: "✅ Confirmar"},
		{ID: CartAddMoreID, Title: "➕ Agregar más"},
	})
}

func finalConfirmationReply(cart []LineItem) Reply {
	body := fmt.Sprintf("Tu pedido tiene %d producto(s). ¿Confirmas el envío?", len(cart))
	return choiceReply("", body, replyCartButton, []Choice{
		{ID: ConfirmYesID, Title: "✅ Sí, enviar"},
		{ID: ConfirmNoID, Title: "↩️ Volver"},
	})
}

func orderPlacedReply(orderNumber int64) Reply {
	return textReply(fmt.Sprintf("✅ ¡Pedido #%d recibido! Te avisaremos cuando esté en camino.", orderNumber))
}

func orderStatusReply(orderNumber int64, status enums.OrderStatus, lineCount int) Reply {
	return textReply(fmt.Sprintf("El pedido #%d tiene %d producto(s) y está en estado: %s.", orderNumber, lineCount, status))
}

func orderNotFoundReply(orderNumber int64) Reply {
	return textReply(fmt.Sprintf("No encontré el pedido #%d. Verifica el número e intenta de nuevo.", orderNumber))
}

package seed

import "github.com/balanza-erp/balanza/internal/ledger/accounts"

// pucAccount is one row of the seeded chart. Level, parent code and the
// leaf flags are derived from the code at insert time.
type pucAccount struct {
	Code               string
	Name               string
	Nature             accounts.Nature
	Type               accounts.Type
	RequiresCostCenter bool
	AppliesWithholding bool
	AppliesTaxes       bool
}

// pucColombia is the default chart for new tenants, a working subset of the
// Plan Único de Cuentas para comerciantes (Decreto 2650).
var pucColombia = []pucAccount{
	// Clase 1: Activo
	{Code: "1", Name: "Activo", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "11", Name: "Disponible", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "1105", Name: "Caja", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "110505", Name: "Caja general", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "110510", Name: "Cajas menores", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "1110", Name: "Bancos", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "111005", Name: "Moneda nacional", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "111010", Name: "Moneda extranjera", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "13", Name: "Deudores", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "1305", Name: "Clientes", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "130505", Name: "Clientes nacionales", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "130510", Name: "Clientes del exterior", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "1355", Name: "Anticipo de impuestos", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "135515", Name: "Retención en la fuente", Nature: accounts.NatureDebit, Type: accounts.TypeAsset, AppliesWithholding: true},
	{Code: "14", Name: "Inventarios", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "1435", Name: "Mercancías no fabricadas por la empresa", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "143505", Name: "Mercancías para la venta", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "15", Name: "Propiedades, planta y equipo", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "1524", Name: "Equipo de oficina", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "152405", Name: "Muebles y enseres", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "1528", Name: "Equipo de computación y comunicación", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "152805", Name: "Equipos de procesamiento de datos", Nature: accounts.NatureDebit, Type: accounts.TypeAsset},
	{Code: "1592", Name: "Depreciación acumulada", Nature: accounts.NatureCredit, Type: accounts.TypeAsset},
	{Code: "159205", Name: "Depreciación equipo de oficina", Nature: accounts.NatureCredit, Type: accounts.TypeAsset},

	// Clase 2: Pasivo
	{Code: "2", Name: "Pasivo", Nature: accounts.NatureCredit, Type: accounts.TypeLiability},
	{Code: "21", Name: "Obligaciones financieras", Nature: accounts.NatureCredit, Type: accounts.TypeLiability},
	{Code: "2105", Name: "Bancos nacionales", Nature: accounts.NatureCredit, Type: accounts.TypeLiability},
	{Code: "210505", Name: "Sobregiros", Nature: accounts.NatureCredit, Type: accounts.TypeLiability},
	{Code: "210510", Name: "Pagarés", Nature: accounts.NatureCredit, Type: accounts.TypeLiability},
	{Code: "22", Name: "Proveedores", Nature: accounts.NatureCredit, Type: accounts.TypeLiability},
	{Code: "2205", Name: "Proveedores nacionales", Nature: accounts.NatureCredit, Type: accounts.TypeLiability},
	{Code: "220505", Name: "Proveedores nacionales", Nature: accounts.NatureCredit, Type: accounts.TypeLiability},
	{Code: "23", Name: "Cuentas por pagar", Nature: accounts.NatureCredit, Type: accounts.TypeLiability},
	{Code: "2365", Name: "Retención en la fuente", Nature: accounts.NatureCredit, Type: accounts.TypeLiability, AppliesWithholding: true},
	{Code: "236515", Name: "Honorarios", Nature: accounts.NatureCredit, Type: accounts.TypeLiability, AppliesWithholding: true},
	{Code: "236540", Name: "Compras", Nature: accounts.NatureCredit, Type: accounts.TypeLiability, AppliesWithholding: true},
	{Code: "24", Name: "Impuestos, gravámenes y tasas", Nature: accounts.NatureCredit, Type: accounts.TypeLiability},
	{Code: "2408", Name: "Impuesto sobre las ventas por pagar", Nature: accounts.NatureCredit, Type: accounts.TypeLiability, AppliesTaxes: true},
	{Code: "240805", Name: "IVA generado", Nature: accounts.NatureCredit, Type: accounts.TypeLiability, AppliesTaxes: true},
	{Code: "240810", Name: "IVA descontable", Nature: accounts.NatureDebit, Type: accounts.TypeLiability, AppliesTaxes: true},

	// Clase 3: Patrimonio
	{Code: "3", Name: "Patrimonio", Nature: accounts.NatureCredit, Type: accounts.TypeEquity},
	{Code: "31", Name: "Capital social", Nature: accounts.NatureCredit, Type: accounts.TypeEquity},
	{Code: "3115", Name: "Aportes sociales", Nature: accounts.NatureCredit, Type: accounts.TypeEquity},
	{Code: "311505", Name: "Cuotas o partes de interés social", Nature: accounts.NatureCredit, Type: accounts.TypeEquity},
	{Code: "36", Name: "Resultados del ejercicio", Nature: accounts.NatureCredit, Type: accounts.TypeEquity},
	{Code: "3605", Name: "Utilidad del ejercicio", Nature: accounts.NatureCredit, Type: accounts.TypeEquity},
	{Code: "360505", Name: "Utilidad del ejercicio", Nature: accounts.NatureCredit, Type: accounts.TypeEquity},

	// Clase 4: Ingresos
	{Code: "4", Name: "Ingresos", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue},
	{Code: "41", Name: "Operacionales", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue},
	{Code: "4105", Name: "Agricultura, ganadería, caza y silvicultura", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue},
	{Code: "410505", Name: "Cultivo de cereales", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue},
	{Code: "4135", Name: "Comercio al por mayor y al por menor", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue},
	{Code: "413505", Name: "Venta de mercancías", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue},
	{Code: "42", Name: "No operacionales", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue},
	{Code: "4210", Name: "Financieros", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue},
	{Code: "421005", Name: "Intereses", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue},

	// Clase 5: Gastos
	{Code: "5", Name: "Gastos", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "51", Name: "Operacionales de administración", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "5105", Name: "Gastos de personal", Nature: accounts.NatureDebit, Type: accounts.TypeExpense, RequiresCostCenter: true},
	{Code: "510506", Name: "Sueldos", Nature: accounts.NatureDebit, Type: accounts.TypeExpense, RequiresCostCenter: true},
	{Code: "5110", Name: "Honorarios", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "511025", Name: "Asesoría jurídica", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "5135", Name: "Servicios", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "513530", Name: "Energía eléctrica", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "513535", Name: "Teléfono", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "53", Name: "No operacionales", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "5305", Name: "Financieros", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "530520", Name: "Intereses", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},

	// Clase 6: Costos de ventas
	{Code: "6", Name: "Costos de ventas", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "61", Name: "Costo de ventas y de prestación de servicios", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "6135", Name: "Comercio al por mayor y al por menor", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
	{Code: "613505", Name: "Venta de mercancías", Nature: accounts.NatureDebit, Type: accounts.TypeExpense},
}

// defaultVoucherType is one seeded document series.
type defaultVoucherType struct {
	Code   string
	Name   string
	Prefix string
}

var defaultVoucherTypes = []defaultVoucherType{
	{Code: "INGRESO", Name: "Recibo de caja", Prefix: "RC"},
	{Code: "EGRESO", Name: "Comprobante de egreso", Prefix: "CE"},
	{Code: "TRASLADO", Name: "Traslado de fondos", Prefix: "TR"},
	{Code: "DIARIO", Name: "Comprobante de diario", Prefix: "CD"},
}

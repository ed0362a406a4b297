// Package etda builds ETDA v2.0 (ER3-2560) tax documents for the TSP
// gateway. Key names, their casing, and explicit nulls are the gateway's wire
// contract and must be reproduced exactly; note that the seller party block
// uses lowercase keys while the buyer party block uses uppercase ones, and
// that the header tax block's "typeCode" is lowercase while the line-level
// "TypeCode" is uppercase. None of the structs here carry omitempty.
package etda

// SchemeID identifies the guideline version of the document context.
type SchemeID struct {
	SchemeAgencyID  string `json:"schemeAgencyID"`
	SchemeVersionID string `json:"schemeVersionID"`
	Value           string `json:"value"`
}

// GuidelineParameter wraps one guideline identifier.
type GuidelineParameter struct {
	ID SchemeID `json:"ID"`
}

// DocumentContext carries the guideline the document conforms to.
type DocumentContext struct {
	GuidelineSpecifiedDocumentContextParameter []GuidelineParameter `json:"GuidelineSpecifiedDocumentContextParameter"`
}

// ExchangedDocument is the document metadata block.
type ExchangedDocument struct {
	ID               string   `json:"ID"`
	Name             []string `json:"Name"`
	TypeCode         string   `json:"TypeCode"`
	IssueDateTime    string   `json:"IssueDateTime"`
	Purpose          *string  `json:"Purpose"`
	PurposeCode      *string  `json:"PurposeCode"`
	GlobalID         string   `json:"GlobalID"`
	CreationDateTime []string `json:"CreationDateTime"`
	IncludedNote     *string  `json:"IncludedNote"`
}

// CountryID is an ISO 3166-1 country reference.
type CountryID struct {
	SchemeID string `json:"schemeID"`
	Value    string `json:"value"`
}

// PostalTradeAddress is a party address block.
type PostalTradeAddress struct {
	PostcodeCode        string    `json:"PostcodeCode"`
	BuildingName        *string   `json:"BuildingName"`
	LineOne             string    `json:"LineOne"`
	LineTwo             *string   `json:"LineTwo"`
	LineThree           *string   `json:"LineThree"`
	LineFour            *string   `json:"LineFour"`
	LineFive            *string   `json:"LineFive"`
	StreetName          *string   `json:"StreetName"`
	CityName            string    `json:"CityName"`
	CitySubDivisionName string    `json:"CitySubDivisionName"`
	CountryID           CountryID `json:"CountryID"`
	CountrySubDivisionID string   `json:"CountrySubDivisionID"`
	BuildingNumber      string    `json:"BuildingNumber"`
}

// TaxRegistrationID is the composite taxpayer registration identifier.
type TaxRegistrationID struct {
	Value            string  `json:"value"`
	SchemeID         string  `json:"schemeID"`
	SchemeName       *string `json:"schemeName"`
	SchemeAgencyID   *string `json:"schemeAgencyID"`
	SchemeAgencyName *string `json:"schemeAgencyName"`
	SchemeVersionID  *string `json:"schemeVersionID"`
	SchemeDataURI    *string `json:"schemeDataURI"`
	SchemeURI        *string `json:"schemeURI"`
}

// TaxRegistration wraps the registration identifier.
type TaxRegistration struct {
	ID TaxRegistrationID `json:"ID"`
}

// Telephone is a contact phone sub-block.
type Telephone struct {
	CompleteNumber string `json:"CompleteNumber"`
}

// EmailURI is a contact email sub-block.
type EmailURI struct {
	URIID string `json:"URIID"`
}

// TradeContact is a buyer contact entry.
type TradeContact struct {
	TelephoneUniversalCommunication Telephone `json:"TelephoneUniversalCommunication"`
	PersonName                      string    `json:"PersonName"`
	DepartmentName                  string    `json:"DepartmentName"`
	EmailURIUniversalCommunication  EmailURI  `json:"EmailURIUniversalCommunication"`
}

// SellerTradeParty uses lowercase keys.
type SellerTradeParty struct {
	PostalTradeAddress       PostalTradeAddress `json:"postalTradeAddress"`
	DefinedTradeContact      []TradeContact     `json:"definedTradeContact"`
	ID                       []string           `json:"id"`
	Name                     string             `json:"name"`
	SpecifiedTaxRegistration TaxRegistration    `json:"SpecifiedTaxRegistration"`
}

// BuyerTradeParty uses uppercase keys.
type BuyerTradeParty struct {
	ID                       []string           `json:"ID"`
	Name                     string             `json:"Name"`
	PostalTradeAddress       PostalTradeAddress `json:"PostalTradeAddress"`
	SpecifiedTaxRegistration TaxRegistration    `json:"SpecifiedTaxRegistration"`
	DefinedTradeContact      []TradeContact     `json:"DefinedTradeContact"`
	GlobalID                 *string            `json:"GlobalID"`
}

// ReferencedDocument points to another document (buyer order, or the
// original tax invoice of a credit/debit note).
type ReferencedDocument struct {
	IssuerAssignedID  string  `json:"IssuerAssignedID"`
	ReferenceTypeCode string  `json:"ReferenceTypeCode"`
	IssueDateTime     *string `json:"IssueDateTime"`
}

// DeliveryTerms is always present with a null type code.
type DeliveryTerms struct {
	DeliveryTypeCode *string `json:"DeliveryTypeCode"`
}

// HeaderTradeAgreement holds the parties and document references.
type HeaderTradeAgreement struct {
	SellerTradeParty             SellerTradeParty     `json:"SellerTradeParty"`
	BuyerTradeParty              BuyerTradeParty      `json:"BuyerTradeParty"`
	ApplicableTradeDeliveryTerms DeliveryTerms        `json:"ApplicableTradeDeliveryTerms"`
	BuyerOrderReferencedDocument ReferencedDocument   `json:"BuyerOrderReferencedDocument"`
	AdditionalReferencedDocument []ReferencedDocument `json:"AdditionalReferencedDocument"`
}

// CurrencyCode identifies the invoice currency.
type CurrencyCode struct {
	ListID string `json:"listID"`
	Value  string `json:"value"`
}

// CurrencyAmount is a monetary value with its currency.
type CurrencyAmount struct {
	CurrencyID                string  `json:"currencyID"`
	CurrencyCodeListVersionID *string `json:"currencyCodeListVersionID"`
	Value                     string  `json:"value"`
}

// HeaderTradeTax is the header-level tax block; "typeCode" is lowercase here.
type HeaderTradeTax struct {
	TypeCode         string   `json:"typeCode"`
	CalculatedRate   string   `json:"CalculatedRate"`
	BasisAmount      []string `json:"BasisAmount"`
	CalculatedAmount []string `json:"CalculatedAmount"`
}

// LineTradeTax is the line-level tax block; "TypeCode" is uppercase here.
type LineTradeTax struct {
	TypeCode         string   `json:"TypeCode"`
	CalculatedRate   string   `json:"CalculatedRate"`
	BasisAmount      []string `json:"BasisAmount"`
	CalculatedAmount []string `json:"CalculatedAmount"`
}

// PaymentTerms is emitted with all-null members.
type PaymentTerms struct {
	TypeCode        *string   `json:"typeCode"`
	DueDateDateTime *string   `json:"dueDateDateTime"`
	Description     []*string `json:"description"`
}

// MonetarySummation is the header totals block.
type MonetarySummation struct {
	GrandTotalAmount            []CurrencyAmount `json:"grandTotalAmount"`
	OriginalInformationAmount   []CurrencyAmount `json:"originalInformationAmount"`
	LineTotalAmount             []CurrencyAmount `json:"lineTotalAmount"`
	DifferenceInformationAmount []CurrencyAmount `json:"differenceInformationAmount"`
	AllowanceTotalAmount        []CurrencyAmount `json:"allowanceTotalAmount"`
	ChargeTotalAmount           []CurrencyAmount `json:"chargeTotalAmount"`
	TaxBasisTotalAmount         []CurrencyAmount `json:"taxBasisTotalAmount"`
	TaxTotalAmount              []CurrencyAmount `json:"taxTotalAmount"`
}

// HeaderTradeSettlement holds currency, tax, and summation blocks.
type HeaderTradeSettlement struct {
	PayerTradeParty                                any               `json:"payerTradeParty"`
	PayeeTradeParty                                any               `json:"payeeTradeParty"`
	InvoiceCurrencyCode                            CurrencyCode      `json:"InvoiceCurrencyCode"`
	ApplicableTradeTax                             []HeaderTradeTax  `json:"ApplicableTradeTax"`
	SpecifiedTradeAllowanceCharge                  any               `json:"SpecifiedTradeAllowanceCharge"`
	SpecifiedTradePaymentTerms                     []PaymentTerms    `json:"SpecifiedTradePaymentTerms"`
	SpecifiedTradeSettlementHeaderMonetarySummation MonetarySummation `json:"SpecifiedTradeSettlementHeaderMonetarySummation"`
}

// LineDocument carries the 1-based line sequence.
type LineDocument struct {
	LineID string `json:"LineID"`
}

// InformationNote is a product remark entry.
type InformationNote struct {
	Content []string `json:"content"`
	Subject string   `json:"subject"`
}

// TradeProduct describes the product of one line.
type TradeProduct struct {
	ID                              *string           `json:"ID"`
	Name                            []string          `json:"Name"`
	IndividualTradeProductInstance  any               `json:"IndividualTradeProductInstance"`
	DesignatedProductClassification any               `json:"DesignatedProductClassification"`
	OriginTradeCountry              any               `json:"OriginTradeCountry"`
	InformationNote                 []InformationNote `json:"InformationNote"`
	GlobalID                        *string           `json:"GlobalID"`
	Description                     []string          `json:"Description"`
}

// GrossPrice is the line price block.
type GrossPrice struct {
	ChargeAmount                []CurrencyAmount `json:"chargeAmount"`
	AppliedTradeAllowanceCharge any              `json:"appliedTradeAllowanceCharge"`
}

// LineTradeAgreement wraps the gross price.
type LineTradeAgreement struct {
	GrossPriceProductTradePrice GrossPrice `json:"grossPriceProductTradePrice"`
}

// BilledQuantity is a quantity with its unit code.
type BilledQuantity struct {
	UnitCode               string  `json:"unitCode"`
	UnitCodeListID         *string `json:"unitCodeListID"`
	UnitCodeListAgencyID   *string `json:"unitCodeListAgencyID"`
	UnitCodeListAgencyName *string `json:"unitCodeListAgencyName"`
	Value                  string  `json:"Value"`
}

// LineTradeDelivery wraps the billed quantity.
type LineTradeDelivery struct {
	BilledQuantity         BilledQuantity `json:"BilledQuantity"`
	PerPackageUnitQuantity any            `json:"PerPackageUnitQuantity"`
}

// LineMonetarySummation is the per-line totals block.
type LineMonetarySummation struct {
	NetLineTotalAmount               []CurrencyAmount `json:"netLineTotalAmount"`
	NetIncludingTaxesLineTotalAmount []CurrencyAmount `json:"netIncludingTaxesLineTotalAmount"`
	TaxTotalAmount                   []CurrencyAmount `json:"taxTotalAmount"`
}

// LineAllowanceCharge is emitted once per line with a zero amount.
type LineAllowanceCharge struct {
	TypeCode        *string  `json:"TypeCode"`
	ActualAmount    []string `json:"ActualAmount"`
	ChargeIndicator bool     `json:"ChargeIndicator"`
	Reason          *string  `json:"Reason"`
	ReasonCode      *string  `json:"ReasonCode"`
}

// LineTradeSettlement holds the line totals and tax.
type LineTradeSettlement struct {
	SpecifiedTradeSettlementLineMonetarySummation LineMonetarySummation `json:"SpecifiedTradeSettlementLineMonetarySummation"`
	ApplicableTradeTax                            []LineTradeTax        `json:"ApplicableTradeTax"`
	SpecifiedTradeAllowanceCharge                 []LineAllowanceCharge `json:"SpecifiedTradeAllowanceCharge"`
}

// LineItem is one supply chain trade line.
type LineItem struct {
	AssociatedDocumentLineDocument LineDocument        `json:"AssociatedDocumentLineDocument"`
	SpecifiedTradeProduct          TradeProduct        `json:"SpecifiedTradeProduct"`
	SpecifiedLineTradeAgreement    LineTradeAgreement  `json:"SpecifiedLineTradeAgreement"`
	SpecifiedLineTradeDelivery     LineTradeDelivery   `json:"SpecifiedLineTradeDelivery"`
	SpecifiedLineTradeSettlement   LineTradeSettlement `json:"SpecifiedLineTradeSettlement"`
}

// SupplyChainTradeTransaction groups the agreement, settlement, and lines.
type SupplyChainTradeTransaction struct {
	ApplicableHeaderTradeAgreement   HeaderTradeAgreement  `json:"ApplicableHeaderTradeAgreement"`
	ApplicableHeaderTradeDelivery    any                   `json:"ApplicableHeaderTradeDelivery"`
	ApplicableHeaderTradeSettlement  HeaderTradeSettlement `json:"ApplicableHeaderTradeSettlement"`
	IncludedSupplyChainTradeLineItem []LineItem            `json:"IncludedSupplyChainTradeLineItem"`
}

// CCA is the TSP customer channel block.
type CCA struct {
	CCACode string `json:"CCACode"`
	CCAName string `json:"CCAName"`
}

// LineOA is the TSP Line Official Account delivery block.
type LineOA struct {
	InternalDocType string `json:"InternalDocType"`
	CompanyCode     string `json:"CompanyCode"`
	IsReplacement   bool   `json:"IsReplacement"`
	SODocNumber     string `json:"SODocNumber"`
	RefDocNumber    string `json:"RefDocNumber"`
}

// Document is the complete submission payload. Payload carries the rendered
// PDF as base64, embedded verbatim.
type Document struct {
	RequestSendMail             string                      `json:"RequestSendMail"`
	InternalDocNo               string                      `json:"InternalDocNo"`
	Email                       string                      `json:"Email"`
	Branch                      string                      `json:"Branch"`
	RequestSendSMS              string                      `json:"RequestSendSMS"`
	MobileNumber                string                      `json:"MobileNumber"`
	RequestSendLineOA           string                      `json:"RequestSendLineOA"`
	RequestSendSFTP             string                      `json:"RequestSendSFTP"`
	RequestSendOneBox           string                      `json:"RequestSendOneBox"`
	CCA                         CCA                         `json:"CCA"`
	LineOA                      LineOA                      `json:"LineOA"`
	ExchangedDocumentContext    DocumentContext             `json:"ExchangedDocumentContext"`
	ExchangedDocument           ExchangedDocument           `json:"ExchangedDocument"`
	SupplyChainTradeTransaction SupplyChainTradeTransaction `json:"SupplyChainTradeTransaction"`
	Payload                     string                      `json:"Document"`
}

// Package printing turns an order into a printable production sheet.
//
// An order is first reduced to a Sheet, a typed document tree with one page
// per order line whose image and swatch sizes come from a SizingPolicy. The
// sheet is bound to an html/template document by SheetGenerator and can then
// be opened in a browser (which prints itself on load) or converted to PDF
// through a PDFRenderer such as ChromedpRenderer. Generated PDFs can be kept
// in an Archive.
package printing

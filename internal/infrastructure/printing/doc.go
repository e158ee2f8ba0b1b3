// Package printing renders fulfillment documents (packing lists, shipping
// notes, delivery receipts) from their JSON payload snapshot.
//
// Templates are embedded html/template files that can be overridden from a
// directory. Rendering to PDF goes through a headless Chrome via chromedp;
// HTMLOnlyRenderer keeps the HTML when no browser is available.
package printing

// Package printer delivers raw ZPL documents to label printers.
//
// Every document becomes one raw, single-page job. The Sink interface hides
// the transport: CUPS via `lp -o raw`, a character device such as
// /dev/usb/lp0, a JetDirect TCP socket, or a spool directory for dry runs.
// Documents are transcoded to the printer's code page before sending. The
// package also discovers USB printer device nodes and watches udev for
// printers being plugged in or removed.
package printer

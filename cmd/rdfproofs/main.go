// Command rdfproofs issues, verifies, and blind-issues BBS+ credentials over
// RDF documents.
package main

import (
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rdf-proofs/rdfproofs-go/api"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/keygraph"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
)

// command is one rdfproofs subcommand.
type command struct {
	name        string
	description string
	execute     func(args []string) error
}

func main() {
	commands := []command{
		{"keygen", "generate a BBS+ key pair sized for a message count", cmdKeygen},
		{"sign", "sign a document graph against a proof configuration", cmdSign},
		{"verify", "verify a signed document graph", cmdVerify},
		{"blind-request", "build a holder's blind-signature request", cmdBlindRequest},
		{"blind-verify-request", "check a holder's blind-signature request", cmdBlindVerifyRequest},
		{"blind-sign", "issue a signature over a blind-signature request", cmdBlindSign},
		{"unblind", "remove a holder's blinding factor from a signature", cmdUnblind},
		{"blind-verify", "verify an unblinded bound signature", cmdBlindVerify},
		{"elgamal-keygen", "generate an opener key pair for verifiable encryption", cmdElGamalKeygen},
	}

	if len(os.Args) < 2 {
		showHelp(commands)
		os.Exit(1)
	}

	name := os.Args[1]
	for _, c := range commands {
		if c.name == name {
			if err := c.execute(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
	showHelp(commands)
	os.Exit(1)
}

func showHelp(commands []command) {
	fmt.Println("rdfproofs - BBS+ selective-disclosure credentials over RDF")
	fmt.Println("\nUsage:")
	fmt.Println("  rdfproofs <command> [options]")
	fmt.Println("\nAvailable Commands:")
	for _, c := range commands {
		fmt.Printf("  %-22s %s\n", c.name, c.description)
	}
	fmt.Println("\nRun 'rdfproofs <command> -h' for flags")
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// keyPairFile is the on-disk form of a generated key pair: multibase-encoded
// private and public key material plus the message count the public key was
// sized for.
type keyPairFile struct {
	MessageCount int    `json:"messageCount"`
	PrivateKey   string `json:"privateKey"`
	PublicKey    string `json:"publicKey"`
}

func cmdKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	messageCount := fs.Int("messages", 4, "number of BBS+ message slots (slot 0 is the holder secret for bound credentials)")
	output := fs.String("output", "keypair.json", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *messageCount < 1 {
		return fmt.Errorf("messages must be at least 1")
	}

	kp, err := bbs.GenerateKeyPair(*messageCount, rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key pair: %w", err)
	}
	skText, err := encodeBinary(kp.PrivateKey)
	if err != nil {
		return err
	}
	pkText, err := encodeBinary(kp.PublicKey)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(keyPairFile{
		MessageCount: *messageCount,
		PrivateKey:   skText,
		PublicKey:    pkText,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFile(*output, string(data)); err != nil {
		return err
	}
	fmt.Printf("key pair for %d messages written to %s\n", *messageCount, *output)
	return nil
}

func loadKeyPairFile(path string) (keyPairFile, error) {
	var kp keyPairFile
	data, err := os.ReadFile(path)
	if err != nil {
		return kp, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &kp); err != nil {
		return kp, fmt.Errorf("parse %s: %w", path, err)
	}
	return kp, nil
}

func cmdSign(args []string) error {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	doc := fs.String("doc", "", "document graph, N-Quads file")
	proof := fs.String("proof", "", "proof configuration graph, N-Quads file")
	vm := fs.String("vm", "", "verification method IRI the proof configuration names")
	keyFile := fs.String("key", "keypair.json", "key pair file from keygen")
	output := fs.String("output", "proof.signed.nq", "output file for the signed proof graph")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *doc == "" || *proof == "" || *vm == "" {
		return fmt.Errorf("-doc, -proof and -vm are required")
	}

	docText, err := readFile(*doc)
	if err != nil {
		return err
	}
	proofText, err := readFile(*proof)
	if err != nil {
		return err
	}
	kpFile, err := loadKeyPairFile(*keyFile)
	if err != nil {
		return err
	}

	var sk bbs.PrivateKey
	if err := decodeBinary(kpFile.PrivateKey, &sk); err != nil {
		return err
	}
	var pk bbs.PublicKey
	if err := decodeBinary(kpFile.PublicKey, &pk); err != nil {
		return err
	}

	keys := keygraph.New()
	keys.Add(*vm, keygraph.Entry{PublicKey: &pk, PrivateKey: &sk})

	canon := rdf.NewCanonicalizer()
	signedProofText, err := api.SignStrings(rand.Reader, canon, docText, proofText, keys)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	if err := writeFile(*output, signedProofText); err != nil {
		return err
	}
	fmt.Printf("signed proof configuration written to %s\n", *output)
	return nil
}

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	doc := fs.String("doc", "", "document graph, N-Quads file")
	proof := fs.String("proof", "", "signed proof configuration graph, N-Quads file")
	vm := fs.String("vm", "", "verification method IRI the proof configuration names")
	keyFile := fs.String("key", "keypair.json", "key pair file from keygen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *doc == "" || *proof == "" || *vm == "" {
		return fmt.Errorf("-doc, -proof and -vm are required")
	}

	docText, err := readFile(*doc)
	if err != nil {
		return err
	}
	proofText, err := readFile(*proof)
	if err != nil {
		return err
	}
	kpFile, err := loadKeyPairFile(*keyFile)
	if err != nil {
		return err
	}
	var pk bbs.PublicKey
	if err := decodeBinary(kpFile.PublicKey, &pk); err != nil {
		return err
	}

	keys := keygraph.New()
	keys.Add(*vm, keygraph.Entry{PublicKey: &pk})

	canon := rdf.NewCanonicalizer()
	if err := api.VerifyStrings(canon, docText, proofText, keys); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	fmt.Println("signature valid")
	return nil
}

func cmdBlindRequest(args []string) error {
	fs := flag.NewFlagSet("blind-request", flag.ExitOnError)
	secret := fs.String("secret", "", "multibase-encoded secret scalar (see encode.HashSecret)")
	context := fs.String("context", "BLIND_SIG_REQUEST_CONTEXT", "context bytes bound into the request proof")
	output := fs.String("output", "blindrequest.json", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *secret == "" {
		return fmt.Errorf("-secret is required")
	}

	requestText, blindingText, err := api.RequestBlindSignString(rand.Reader, *secret, []byte(*context), nil)
	if err != nil {
		return fmt.Errorf("build blind request: %w", err)
	}

	out := struct {
		Request  string `json:"request"`
		Blinding string `json:"blinding"`
	}{requestText, blindingText}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFile(*output, string(data)); err != nil {
		return err
	}
	fmt.Printf("blind request written to %s (share \"request\"; keep \"blinding\" secret)\n", *output)
	return nil
}

func cmdBlindVerifyRequest(args []string) error {
	fs := flag.NewFlagSet("blind-verify-request", flag.ExitOnError)
	request := fs.String("request", "", "multibase-encoded request, from blind-request's \"request\" field")
	context := fs.String("context", "BLIND_SIG_REQUEST_CONTEXT", "context bytes the request was built with")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *request == "" {
		return fmt.Errorf("-request is required")
	}
	if err := api.VerifyBlindSignRequestString(*request, []byte(*context), nil); err != nil {
		return fmt.Errorf("request invalid: %w", err)
	}
	fmt.Println("request valid")
	return nil
}

func cmdBlindSign(args []string) error {
	fs := flag.NewFlagSet("blind-sign", flag.ExitOnError)
	request := fs.String("request", "", "multibase-encoded request")
	keyFile := fs.String("key", "keypair.json", "issuer key pair file")
	output := fs.String("output", "blindsig.json", "output file for the blinded signature")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *request == "" {
		return fmt.Errorf("-request is required")
	}
	kpFile, err := loadKeyPairFile(*keyFile)
	if err != nil {
		return err
	}

	sigText, err := api.BlindSignString(rand.Reader, kpFile.PrivateKey, kpFile.PublicKey, *request, nil, nil)
	if err != nil {
		return fmt.Errorf("blind sign: %w", err)
	}
	if err := writeFile(*output, sigText); err != nil {
		return err
	}
	fmt.Printf("blinded signature written to %s (holder must unblind before use)\n", *output)
	return nil
}

func cmdUnblind(args []string) error {
	fs := flag.NewFlagSet("unblind", flag.ExitOnError)
	sig := fs.String("signature", "", "multibase-encoded blinded signature")
	blinding := fs.String("blinding", "", "multibase-encoded blinding scalar, from blind-request's \"blinding\" field")
	output := fs.String("output", "signature.txt", "output file for the unblinded signature")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sig == "" || *blinding == "" {
		return fmt.Errorf("-signature and -blinding are required")
	}
	unblinded, err := api.UnblindString(*sig, *blinding)
	if err != nil {
		return fmt.Errorf("unblind: %w", err)
	}
	if err := writeFile(*output, unblinded); err != nil {
		return err
	}
	fmt.Printf("unblinded signature written to %s\n", *output)
	return nil
}

func cmdBlindVerify(args []string) error {
	fs := flag.NewFlagSet("blind-verify", flag.ExitOnError)
	keyFile := fs.String("key", "keypair.json", "issuer key pair file")
	sig := fs.String("signature", "", "multibase-encoded unblinded signature")
	secret := fs.String("secret", "", "multibase-encoded secret scalar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sig == "" || *secret == "" {
		return fmt.Errorf("-signature and -secret are required")
	}
	kpFile, err := loadKeyPairFile(*keyFile)
	if err != nil {
		return err
	}
	if err := api.BlindVerifyString(kpFile.PublicKey, *sig, *secret, nil, nil); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	fmt.Println("signature valid")
	return nil
}

func cmdElGamalKeygen(args []string) error {
	fs := flag.NewFlagSet("elgamal-keygen", flag.ExitOnError)
	output := fs.String("output", "elgamal.json", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sk, pk, err := api.ElGamalKeygen(rand.Reader)
	if err != nil {
		return fmt.Errorf("generate opener key pair: %w", err)
	}
	skText, err := encodeElGamalPrivateKey(sk)
	if err != nil {
		return err
	}
	pkText, err := encodeElGamalPublicKey(pk)
	if err != nil {
		return err
	}

	out := struct {
		PrivateKey string `json:"privateKey"`
		PublicKey  string `json:"publicKey"`
	}{skText, pkText}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFile(*output, string(data)); err != nil {
		return err
	}
	fmt.Printf("opener key pair written to %s\n", *output)
	return nil
}
